package renderer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RaylibLogCallback returns a trace log callback that forwards raylib's
// output to logger under the "raylib" component.
func RaylibLogCallback(logger *slog.Logger) rl.TraceLogCallbackFun {
	l := logger.With("component", "raylib")
	return func(level int, msg string) {
		switch rl.TraceLogLevel(level) {
		case rl.LogTrace, rl.LogDebug:
			l.Debug(msg)
		case rl.LogInfo:
			l.Info(msg)
		case rl.LogWarning:
			l.Warn(msg)
		default:
			l.Error(msg)
		}
	}
}
