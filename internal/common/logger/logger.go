package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log: общий логгер сервисов и CLI. До вызова Init работает с настройками logrus по умолчанию.
var Log = logrus.New()

// Init настраивает уровень и формат. Вызывается один раз в main.
// level: debug/info/warn/error (по умолчанию info), format: json или text.
func Init(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	Log.SetOutput(os.Stdout)
}

// Component: логгер с полем component.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

// Discard глушит вывод (тесты, CLI с --quiet).
func Discard() {
	Log.SetOutput(io.Discard)
}
