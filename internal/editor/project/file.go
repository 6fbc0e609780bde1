package project

import (
	"fmt"
	"os"
	"path/filepath"

	"floorplan/internal/editor/models"
)

// Save пишет документ во временный файл рядом с path и переименовывает его,
// так что прежний файл не остается наполовину перезаписанным.
func Save(path string, p *Project, entities []models.Entity) error {
	data, err := Encode(p, entities)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir project dir: %v: %w", err, ErrPersistence)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".project-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %v: %w", err, ErrPersistence)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write project: %v: %w", err, ErrPersistence)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close project: %v: %w", err, ErrPersistence)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename project: %v: %w", err, ErrPersistence)
	}
	return nil
}

func Load(path string) (*Project, []models.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read project: %v: %w", err, ErrPersistence)
	}
	return Decode(data)
}
