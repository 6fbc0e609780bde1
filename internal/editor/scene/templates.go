package scene

import (
	"fmt"
	"sort"

	"floorplan/internal/editor/models"
)

// ============================================================
// Apartment templates
// ============================================================

type segment [4]float64

var templates = map[string]func() []segment{
	"studio":   studioLayout,
	"two-room": twoRoomLayout,
}

// TemplateNames: доступные шаблоны в алфавитном порядке.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TemplateWalls строит стены шаблона без привязки к контроллеру (CLI).
func TemplateWalls(name string) ([]models.Entity, error) {
	layout, ok := templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	segs := layout()
	out := make([]models.Entity, 0, len(segs))
	for _, s := range segs {
		w, err := models.NewWall(s[0], s[1], s[2], s[3], models.DefaultWallThickness)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		out = append(out, w)
	}
	return out, nil
}

// LoadTemplate заменяет сцену стенами шаблона одним отменяемым действием.
func (c *Controller) LoadTemplate(name string) error {
	walls, err := TemplateWalls(name)
	if err != nil {
		return err
	}
	c.Cancel()
	c.entities = walls
	c.selectEntity(nil)
	c.commit("template "+name, nil)
	c.log.WithField("template", name).WithField("walls", len(walls)).Info("template loaded")
	return nil
}

func rectWalls(l, t, r, b float64) []segment {
	return []segment{
		{l, t, r, t},
		{r, t, r, b},
		{r, b, l, b},
		{l, b, l, t},
	}
}

// studioLayout: комната, кухня, санузел и прихожая.
func studioLayout() []segment {
	const l, t, r, b = 80.0, 80.0, 1140.0, 800.0
	walls := rectWalls(l, t, r, b)

	hx1, hy1 := r-220, b-260
	walls = append(walls,
		segment{hx1, hy1, r, hy1},
		segment{hx1, hy1, hx1, b},
	)

	by2 := hy1 + 220
	walls = append(walls, segment{hx1, by2, r, by2})

	kx2, ky1 := l+360, t+260
	walls = append(walls, segment{l, ky1, kx2, ky1})

	nx1, ny1 := hx1-200, b-260
	walls = append(walls,
		segment{nx1, ny1, hx1, ny1},
		segment{nx1, ny1, nx1, b},
	)
	return walls
}

// twoRoomLayout: две комнаты, кухня, санузел и коридор.
func twoRoomLayout() []segment {
	const l, t, r, b = 60.0, 60.0, 1240.0, 900.0
	walls := rectWalls(l, t, r, b)

	hx := r - 180
	walls = append(walls, segment{hx, t + 120, hx, b - 120})

	by1 := t + 320
	by2 := by1 + 220
	walls = append(walls,
		segment{hx, by1, r, by1},
		segment{hx, by2, r, by2},
	)

	kx2, ky := l+380, b-320
	walls = append(walls,
		segment{kx2, ky, kx2, b},
		segment{l, ky, kx2, ky},
	)

	walls = append(walls, segment{hx, b - 340, r, b - 340})

	dx, dy := l+520, t+420
	walls = append(walls,
		segment{l, dy, dx, dy},
		segment{dx, t, dx, dy},
	)

	walls = append(walls, segment{kx2, ky, hx - 120, ky})
	return walls
}
