package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"floorplan/internal/common/logger"
	"floorplan/internal/editor/collision"
	"floorplan/internal/editor/geometry"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/project"
	"floorplan/internal/editor/repository"
	"floorplan/internal/editor/scene"
	"floorplan/internal/editor/service"
	"floorplan/internal/editor/svgexport"
	"floorplan/internal/editor/svgimport"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// ============================================================
// Editor Handler
// ============================================================

var errBadRequest = errors.New("bad request")

type EditorHandler struct {
	repo     *repository.Repository
	sessions *service.SessionManager
	storage  *service.FileStorage
	log      *logrus.Entry
}

func NewEditorHandler(repo *repository.Repository, sessions *service.SessionManager, storage *service.FileStorage) *EditorHandler {
	return &EditorHandler{
		repo:     repo,
		sessions: sessions,
		storage:  storage,
		log:      logger.Component("handlers"),
	}
}

// Register вешает маршруты редактора на router.
func (h *EditorHandler) Register(r fiber.Router) {
	r.Get("/health/live", LivenessProbe)
	r.Get("/health/ready", h.ReadinessProbe)
	r.Get("/docs", SwaggerUI)
	r.Get("/docs/openapi.yaml", SwaggerSpec)

	r.Get("/templates", h.ListTemplates)

	r.Post("/sessions", h.CreateSession)
	r.Delete("/sessions/:id", h.CloseSession)

	r.Post("/sessions/:id/tool", h.SetTool)
	r.Post("/sessions/:id/pointer/down", h.PointerDown)
	r.Post("/sessions/:id/pointer/move", h.PointerMove)
	r.Post("/sessions/:id/pointer/up", h.PointerUp)
	r.Post("/sessions/:id/wheel", h.Wheel)
	r.Post("/sessions/:id/cancel", h.Cancel)
	r.Post("/sessions/:id/delete", h.DeleteSelected)
	r.Post("/sessions/:id/clear", h.Clear)
	r.Post("/sessions/:id/undo", h.Undo)
	r.Post("/sessions/:id/redo", h.Redo)
	r.Post("/sessions/:id/template", h.LoadTemplate)

	r.Get("/sessions/:id/entities", h.Entities)
	r.Get("/sessions/:id/selected", h.Selected)
	r.Get("/sessions/:id/statistics", h.Statistics)
	r.Get("/sessions/:id/bounds", h.Bounds)

	r.Get("/sessions/:id/project", h.GetProject)
	r.Put("/sessions/:id/project", h.PutProject)
	r.Post("/sessions/:id/import-svg", h.ImportSVG)
	r.Get("/sessions/:id/svg", h.ExportSVG)
	r.Post("/sessions/:id/save", h.SaveProject)

	r.Get("/projects", h.ListProjects)
	r.Post("/projects/:name/open", h.OpenProject)
	r.Delete("/projects/:name", h.DeleteProject)
}

// ============================================================
// Payloads
// ============================================================

type entityPayload struct {
	project.Object
	Selected  bool `json:"selected"`
	Colliding bool `json:"colliding"`
}

func mapEntity(e models.Entity) entityPayload {
	return entityPayload{
		Object:    project.ToObject(e),
		Selected:  e.Selected(),
		Colliding: e.Colliding(),
	}
}

func mapEntities(entities []models.Entity) []entityPayload {
	out := make([]entityPayload, 0, len(entities))
	for _, e := range entities {
		out = append(out, mapEntity(e))
	}
	return out
}

type outcomePayload struct {
	scene.Outcome
	Error string `json:"error,omitempty"`
}

type createSessionRequest struct {
	Template string `json:"template"`
}

type toolRequest struct {
	Tool string `json:"tool"`
	scene.Payload
}

type pointerRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button string  `json:"button"`
	Delta  float64 `json:"delta"`
	scene.Modifiers
}

type templateRequest struct {
	Name string `json:"name"`
}

type saveRequest struct {
	Name string `json:"name"`
}

// ============================================================
// Sessions
// ============================================================

func (h *EditorHandler) ListTemplates(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"templates": scene.TemplateNames()})
}

// CreateSession открывает сессию; тело необязательно.
func (h *EditorHandler) CreateSession(c fiber.Ctx) error {
	var req createSessionRequest
	if err := decodeOptional(c, &req); err != nil {
		return fail(c, err)
	}

	s, err := h.sessions.Create(req.Template)
	if err != nil {
		return fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}
	h.log.WithField("session", s.ID).WithField("template", req.Template).Info("session created")

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":         s.ID,
		"created_at": s.CreatedAt,
	})
}

func (h *EditorHandler) CloseSession(c fiber.Ctx) error {
	if !h.sessions.Close(c.Params("id")) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Input events
// ============================================================

func (h *EditorHandler) SetTool(c fiber.Ctx) error {
	var req toolRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, err)
	}

	err := h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		if err := ctrl.SetToolMode(scene.ToolMode(req.Tool), req.Payload); err != nil {
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"tool": req.Tool})
}

func (h *EditorHandler) PointerDown(c fiber.Ctx) error {
	return h.pointer(c, func(ctrl *scene.Controller, req pointerRequest, b scene.Button) scene.Outcome {
		return ctrl.PointerDown(req.X, req.Y, b, req.Modifiers)
	})
}

func (h *EditorHandler) PointerMove(c fiber.Ctx) error {
	return h.pointer(c, func(ctrl *scene.Controller, req pointerRequest, _ scene.Button) scene.Outcome {
		return ctrl.PointerMove(req.X, req.Y, req.Modifiers)
	})
}

func (h *EditorHandler) PointerUp(c fiber.Ctx) error {
	return h.pointer(c, func(ctrl *scene.Controller, req pointerRequest, b scene.Button) scene.Outcome {
		return ctrl.PointerUp(req.X, req.Y, b, req.Modifiers)
	})
}

func (h *EditorHandler) Wheel(c fiber.Ctx) error {
	return h.pointer(c, func(ctrl *scene.Controller, req pointerRequest, _ scene.Button) scene.Outcome {
		return ctrl.Wheel(req.X, req.Y, req.Delta, req.Modifiers)
	})
}

func (h *EditorHandler) Cancel(c fiber.Ctx) error {
	var out scene.Outcome
	err := h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		out = ctrl.Cancel()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(mapOutcome(out))
}

func (h *EditorHandler) pointer(c fiber.Ctx, fn func(*scene.Controller, pointerRequest, scene.Button) scene.Outcome) error {
	var req pointerRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, err)
	}
	button, err := parseButton(req.Button)
	if err != nil {
		return fail(c, err)
	}

	var out scene.Outcome
	err = h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		out = fn(ctrl, req, button)
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(mapOutcome(out))
}

func mapOutcome(out scene.Outcome) outcomePayload {
	p := outcomePayload{Outcome: out}
	if out.Err != nil {
		p.Error = out.Err.Error()
	}
	return p
}

func parseButton(s string) (scene.Button, error) {
	switch s {
	case "", "left":
		return scene.ButtonLeft, nil
	case "right":
		return scene.ButtonRight, nil
	case "middle":
		return scene.ButtonMiddle, nil
	}
	return 0, fmt.Errorf("%w: unknown button %q", errBadRequest, s)
}

// ============================================================
// Editing commands
// ============================================================

func (h *EditorHandler) DeleteSelected(c fiber.Ctx) error {
	var deleted bool
	err := h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		deleted = ctrl.DeleteSelected()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

func (h *EditorHandler) Clear(c fiber.Ctx) error {
	err := h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		ctrl.ClearAll()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"cleared": true})
}

func (h *EditorHandler) Undo(c fiber.Ctx) error {
	return h.historyStep(c, (*scene.Controller).Undo)
}

func (h *EditorHandler) Redo(c fiber.Ctx) error {
	return h.historyStep(c, (*scene.Controller).Redo)
}

func (h *EditorHandler) historyStep(c fiber.Ctx, step func(*scene.Controller) bool) error {
	var applied, canUndo, canRedo bool
	err := h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		applied = step(ctrl)
		canUndo, canRedo = ctrl.CanUndo(), ctrl.CanRedo()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"applied":  applied,
		"can_undo": canUndo,
		"can_redo": canRedo,
	})
}

func (h *EditorHandler) LoadTemplate(c fiber.Ctx) error {
	var req templateRequest
	if err := decodeBody(c, &req); err != nil {
		return fail(c, err)
	}

	var count int
	err := h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		if err := ctrl.LoadTemplate(req.Name); err != nil {
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
		count = len(ctrl.Entities())
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"template": req.Name, "walls": count})
}

// ============================================================
// Queries
// ============================================================

func (h *EditorHandler) Entities(c fiber.Ctx) error {
	var entities []models.Entity
	err := h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		entities = ctrl.Entities()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"entities": mapEntities(entities)})
}

func (h *EditorHandler) Selected(c fiber.Ctx) error {
	var selected models.Entity
	err := h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		selected = ctrl.Selected()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	if selected == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "nothing selected"})
	}
	return c.JSON(mapEntity(selected))
}

func (h *EditorHandler) Statistics(c fiber.Ctx) error {
	var stats scene.Statistics
	err := h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		stats = ctrl.Statistics()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

func (h *EditorHandler) Bounds(c fiber.Ctx) error {
	var bounds geometry.Rect
	err := h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		bounds = ctrl.ContentBounds()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"x":      bounds.X,
		"y":      bounds.Y,
		"width":  bounds.W,
		"height": bounds.H,
	})
}

// ============================================================
// Documents
// ============================================================

// GetProject отдает документ проекта в формате файла сохранения.
func (h *EditorHandler) GetProject(c fiber.Ctx) error {
	var data []byte
	err := h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		var err error
		data, err = ctrl.Document()
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	c.Set("Content-Type", "application/json")
	return c.Send(data)
}

// PutProject заменяет сцену присланным документом. Битый документ сцену не меняет.
func (h *EditorHandler) PutProject(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	var count int
	err := h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		if err := ctrl.LoadDocument(c.Body()); err != nil {
			return err
		}
		count = len(ctrl.Entities())
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"entities": count})
}

// ImportSVG добавляет в сцену элементы загруженного SVG-плана.
// Параметры query scale, offset_x, offset_y необязательны.
func (h *EditorHandler) ImportSVG(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file required"})
	}
	opts, err := importOptions(c)
	if err != nil {
		return fail(c, err)
	}
	name := c.Query("project")
	if name != "" {
		if err := service.ValidateName(name); err != nil {
			return fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		}
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	res, err := svgimport.Import(bytes.NewReader(data), opts)
	if err != nil {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	var added int
	err = h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		added = ctrl.Import(res.Entities)
		if name == "" && ctrl.Project().Name != project.DefaultName {
			name = ctrl.Project().Name
		}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}

	// исходник сохраняется только для именованного проекта
	var upload string
	if name != "" && service.ValidateName(name) == nil {
		if upload, err = h.storage.SaveUpload(name, fileHeader.Filename, data); err != nil {
			h.log.WithError(err).WithField("project", name).Warn("upload not stored")
			upload = ""
		}
	}

	h.log.WithField("file", fileHeader.Filename).WithField("entities", added).Info("svg imported")
	resp := fiber.Map{
		"added":    added,
		"walls":    res.Walls,
		"openings": res.Openings,
		"zones":    res.Zones,
		"skipped":  res.Skipped,
	}
	if upload != "" {
		resp["upload"] = upload
	}
	return c.JSON(resp)
}

func importOptions(c fiber.Ctx) (svgimport.Options, error) {
	opts := svgimport.DefaultOptions()
	fields := []struct {
		key string
		dst *float64
	}{
		{"scale", &opts.Scale},
		{"offset_x", &opts.OffsetX},
		{"offset_y", &opts.OffsetY},
	}
	for _, f := range fields {
		raw := c.Query(f.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, fmt.Errorf("%w: %s must be a number", errBadRequest, f.key)
		}
		*f.dst = v
	}
	if opts.Scale <= 0 {
		return opts, fmt.Errorf("%w: scale must be positive", errBadRequest)
	}
	return opts, nil
}

func (h *EditorHandler) ExportSVG(c fiber.Ctx) error {
	var entities []models.Entity
	err := h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		entities = ctrl.Entities()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svgexport.Render(entities))
}

// ============================================================
// Saved projects
// ============================================================

// SaveProject пишет документ в БД и в каталог проекта (project.json и plan.svg).
func (h *EditorHandler) SaveProject(c fiber.Ctx) error {
	var req saveRequest
	if err := decodeOptional(c, &req); err != nil {
		return fail(c, err)
	}

	var (
		doc   []byte
		svg   string
		stats scene.Statistics
		name  string
	)
	err := h.sessions.Do(c.Params("id"), func(ctrl *scene.Controller) error {
		name = req.Name
		if name == "" {
			name = ctrl.Project().Name
		}
		if err := service.ValidateName(name); err != nil {
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
		ctrl.SetProjectName(name)
		var err error
		if doc, err = ctrl.Document(); err != nil {
			return err
		}
		stats = ctrl.Statistics()
		svg = svgexport.Render(ctrl.Entities())
		return nil
	})
	if err != nil {
		return fail(c, err)
	}

	if err := h.storage.SaveFile(name, h.storage.JSONPath(name), doc); err != nil {
		return fail(c, err)
	}
	if err := h.storage.SaveFile(name, h.storage.SVGPath(name), []byte(svg)); err != nil {
		return fail(c, err)
	}

	rec := &repository.Record{
		Name:      name,
		Document:  doc,
		Walls:     stats.Walls,
		Entities:  stats.Total,
		FloorArea: stats.FloorArea,
	}
	if err := h.repo.Save(context.Background(), rec); err != nil {
		return fail(c, err)
	}

	h.log.WithField("project", name).WithField("entities", rec.Entities).Info("project saved")
	return c.Status(http.StatusCreated).JSON(rec)
}

func (h *EditorHandler) ListProjects(c fiber.Ctx) error {
	records, err := h.repo.List(context.Background())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"projects": records})
}

// OpenProject открывает сохраненный проект в новой сессии.
func (h *EditorHandler) OpenProject(c fiber.Ctx) error {
	name := c.Params("name")
	rec, err := h.repo.GetByName(context.Background(), name)
	if err != nil {
		return fail(c, err)
	}

	s, err := h.sessions.Create("")
	if err != nil {
		return fail(c, err)
	}
	var count int
	err = h.sessions.Do(s.ID, func(ctrl *scene.Controller) error {
		if err := ctrl.LoadDocument(rec.Document); err != nil {
			return err
		}
		count = len(ctrl.Entities())
		return nil
	})
	if err != nil {
		h.sessions.Close(s.ID)
		return fail(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":       s.ID,
		"project":  rec.Name,
		"entities": count,
	})
}

func (h *EditorHandler) DeleteProject(c fiber.Ctx) error {
	name := c.Params("name")
	if err := service.ValidateName(name); err != nil {
		return fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}
	if err := h.repo.Delete(context.Background(), name); err != nil {
		return fail(c, err)
	}
	if err := h.storage.Remove(name); err != nil {
		return fail(c, err)
	}
	h.log.WithField("project", name).Info("project deleted")
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Helpers
// ============================================================

func decodeBody(c fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return fmt.Errorf("%w: empty body", errBadRequest)
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return fmt.Errorf("%w: invalid json", errBadRequest)
	}
	return nil
}

func decodeOptional(c fiber.Ctx, dst any) error {
	if len(bytes.TrimSpace(c.Body())) == 0 {
		return nil
	}
	return decodeBody(c, dst)
}

// fail переводит ошибку слоя сцены или хранилища в HTTP-статус.
func fail(c fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, geometry.ErrInvalidConfiguration):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, project.ErrPersistence), errors.Is(err, collision.ErrPlacementRejected):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		logger.Component("handlers").WithError(err).Error("request failed")
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
