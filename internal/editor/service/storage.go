package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage раскладывает файлы проектов по каталогам root/<name>/.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) Root() string { return s.root }

// ValidateName отклоняет имена, которые выходят за пределы root.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid project name %q", name)
	}
	return nil
}

func (s *FileStorage) ProjectDir(name string) string {
	return filepath.Join(s.root, name)
}

func (s *FileStorage) JSONPath(name string) string {
	return filepath.Join(s.ProjectDir(name), "project.json")
}

func (s *FileStorage) SVGPath(name string) string {
	return filepath.Join(s.ProjectDir(name), "plan.svg")
}

func (s *FileStorage) UploadsDir(name string) string {
	return filepath.Join(s.ProjectDir(name), "uploads")
}

func (s *FileStorage) UploadPath(name, filename string) string {
	return filepath.Join(s.UploadsDir(name), filepath.Base(filename))
}

func (s *FileStorage) EnsureDir(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.ProjectDir(name), 0o755); err != nil {
		return fmt.Errorf("mkdir project dir: %w", err)
	}
	return nil
}

func (s *FileStorage) EnsureUploadsDir(name string) error {
	if err := s.EnsureDir(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.UploadsDir(name), 0o755); err != nil {
		return fmt.Errorf("mkdir uploads dir: %w", err)
	}
	return nil
}

func (s *FileStorage) SaveFile(name, target string, data []byte) error {
	if err := s.EnsureDir(name); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

// SaveUpload кладет исходный файл импорта в root/<name>/uploads и возвращает путь.
func (s *FileStorage) SaveUpload(name, filename string, data []byte) (string, error) {
	if err := s.EnsureUploadsDir(name); err != nil {
		return "", err
	}
	path := s.UploadPath(name, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}

// Remove удаляет каталог проекта целиком; отсутствие каталога не ошибка.
func (s *FileStorage) Remove(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.RemoveAll(s.ProjectDir(name)); err != nil {
		return fmt.Errorf("remove project dir: %w", err)
	}
	return nil
}
