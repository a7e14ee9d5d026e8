package logutil

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

const (
	attrCommand = "command"
	attrStatus  = "status"
)

const (
	LevelTrace   = slog.Level(-8)
	LevelDebug   = slog.LevelDebug
	LevelInfo    = slog.LevelInfo
	LevelWarning = slog.LevelWarn
	LevelError   = slog.LevelError
)

const (
	colorBlueIntense  = 12
	colorRedIntense   = 9
	colorGreenIntense = 10
	colorWhiteIntense = 15
)

// WithCommand scopes a logger to one command type for the duration of a dispatch.
func WithCommand(logger *slog.Logger, commandType string) *slog.Logger {
	return logger.With(attrCommand, commandType)
}

func init() {
	w := os.Stderr

	// Set global logger with custom options
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      LevelTrace,
			TimeFormat: time.Kitchen,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == slog.LevelKey {
					level := attr.Value.Any().(slog.Level)
					switch {
					case level < LevelDebug:
						attr.Value = slog.StringValue("TRACE")
					}
				}

				if attr.Key == attrCommand {
					return tint.Attr(colorBlueIntense, attr)
				}

				if attr.Key == attrStatus {
					switch attr.Value.String() {
					case "completed":
						return tint.Attr(colorGreenIntense, attr)
					case "failed":
						return tint.Attr(colorRedIntense, attr)
					default:
						return tint.Attr(colorWhiteIntense, attr)
					}
				}
				return attr
			},
		}),
	))
}
