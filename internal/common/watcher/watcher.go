package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"floorplan/internal/common/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// ============================================================
// File Watcher
// ============================================================

// FileWatcher вызывает callback после изменения отслеживаемого файла.
// Следит за каталогом файла: проекты сохраняются через rename, и сам
// файл при каждом сохранении подменяется.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	callbacks map[string]func(string) // abs path -> callback
	dirs      map[string]int
	timers    map[string]*time.Timer
	debounce  time.Duration
	log       *logrus.Entry
}

func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &FileWatcher{
		watcher:   w,
		callbacks: make(map[string]func(string)),
		dirs:      make(map[string]int),
		timers:    make(map[string]*time.Timer),
		debounce:  debounce,
		log:       logger.Component("watcher"),
	}, nil
}

func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", file, err)
		}
		if _, ok := fw.callbacks[abs]; ok {
			fw.callbacks[abs] = callback
			continue
		}

		dir := filepath.Dir(abs)
		if fw.dirs[dir] == 0 {
			if err := fw.watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
		}
		fw.dirs[dir]++
		fw.callbacks[abs] = callback
	}
	return nil
}

// Start запускает цикл событий. Завершается после Close.
func (fw *FileWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					fw.changed(event.Name)
				}
			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				fw.log.WithError(err).Warn("watcher error")
			}
		}
	}()
}

// changed откладывает callback на debounce: серия событий одного
// сохранения дает один вызов.
func (fw *FileWatcher) changed(name string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}
	callback, ok := fw.callbacks[abs]
	if !ok {
		return
	}

	if timer, ok := fw.timers[abs]; ok {
		timer.Stop()
	}
	fw.timers[abs] = time.AfterFunc(fw.debounce, func() {
		callback(abs)
	})
}

func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, timer := range fw.timers {
		timer.Stop()
	}
	fw.mu.Unlock()
	return fw.watcher.Close()
}
