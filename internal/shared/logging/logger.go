package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const LevelTrace = slog.LevelDebug - 2

var levelNames = map[string]slog.Level{
	"trace":   LevelTrace,
	"debug":   slog.LevelDebug,
	"dbg":     slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
	"err":     slog.LevelError,
}

// Config selects the level, encoding and destination directory of the process logger.
type Config struct {
	Level     string
	Format    string
	Directory string
	AddSource bool
}

// ParseLevel maps a level name to slog; unknown names mean info.
func ParseLevel(raw string) slog.Level {
	if level, ok := levelNames[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return level
	}
	return slog.LevelInfo
}

// New builds a text logger on w, or a JSON one when Format is "json".
func New(w io.Writer, cfg Config) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level), AddSource: cfg.AddSource}
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup tees console output into today's file under cfg.Directory, routes the
// standard log package through the same writer and returns the logger with the
// file's closer.
func Setup(cfg Config, console io.Writer, now time.Time) (*slog.Logger, io.Closer, error) {
	file, err := OpenDailyFile(cfg.Directory, now)
	if err != nil {
		return nil, nil, err
	}
	if console == nil {
		console = os.Stdout
	}
	writer := io.MultiWriter(console, file)
	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")
	return New(writer, cfg), file, nil
}

// OpenDailyFile opens <dir>/YYYY-MM-DD.log (UTC date) for appending.
func OpenDailyFile(dir string, now time.Time) (*os.File, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	name := filepath.Join(dir, now.UTC().Format(time.DateOnly)+".log")
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}
