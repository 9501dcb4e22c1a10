package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"nwsclient/config"
)

// New returns a colored text logger in dev and a JSON logger otherwise.
// Output goes to w, normally os.Stderr so that command output on stdout
// stays machine readable.
func New(cfg *config.Config, w io.Writer, appName string) *slog.Logger {
	if cfg.AppEnv == "dev" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(h).With(
		"app", appName,
		"env", cfg.AppEnv,
	)
}
