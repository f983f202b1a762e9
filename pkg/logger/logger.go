package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init пишет в stderr с уровнем Info.
var Log = logrus.New()

// Init инициализирует глобальный логгер из окружения.
// Эта функция должна быть вызвана один раз при старте приложения в main.go.
func Init() {
	// LOG_LEVEL: по умолчанию "info". Для отладки можно выставить "debug".
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	Configure(logLevel, os.Getenv("LOG_FORMAT"), os.Stdout)
}

// Configure применяет уровень и формат (например, из конфиг-файла).
// "json" - для продакшена и сбора логов, всё остальное - текст для разработки.
func Configure(level, format string, out io.Writer) {
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
			ForceColors:   true,
		})
	}

	if out != nil {
		Log.SetOutput(out)
	}
}
