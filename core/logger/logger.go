package logger

import (
	"log/slog"
	"os"
	"sync"
)

var (
	once sync.Once
	log  *slog.Logger
)

// Init configures the process-wide logger. Level defaults to info; pass
// "debug" to enable debug output. Safe to call more than once.
func Init(level string) {
	once.Do(func() {
		lvl := slog.LevelInfo
		if level == "debug" {
			lvl = slog.LevelDebug
		}
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	})
}

func get() *slog.Logger {
	if log == nil {
		Init("")
	}
	return log
}

// normalize tolerates the "message, err" call shape used across the codebase
// by keying a lone trailing value as "error".
func normalize(args []any) []any {
	if len(args)%2 == 1 {
		return append([]any{"error"}, args...)
	}
	return args
}

func Debug(msg string, args ...any) {
	get().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	get().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	get().Error(msg, normalize(args)...)
}
