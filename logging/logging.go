/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package logging configures logrus for the mothership: human-readable
// output on stdout plus an uncoloured copy in a daily-rotated log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/suparena/mothership/config"
)

// Setup builds a logger from cfg. The returned closer releases the log file.
func Setup(cfg config.Log) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level := logrus.InfoLevel
	if cfg.Level != "" {
		lvl, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, err
		}
		level = lvl
	}
	logger.SetLevel(level)

	if cfg.Dir == "" {
		return logger, io.NopCloser(nil), nil
	}

	name := cfg.File
	if name == "" {
		name = "mothership.log"
	}
	file := NewDailyFile(cfg.Dir, name)
	logger.AddHook(NewFileHook(file))
	return logger, file, nil
}

// FileHook writes every entry to w with colours disabled.
type FileHook struct {
	w         io.Writer
	formatter logrus.Formatter
}

// NewFileHook creates a hook writing to w
func NewFileHook(w io.Writer) *FileHook {
	return &FileHook{
		w: w,
		formatter: &logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		},
	}
}

// Levels implements logrus.Hook
func (h *FileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook
func (h *FileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.w.Write(line)
	return err
}

const dayLayout = "2006-01-02"

// DailyFile is an io.WriteCloser that starts a new file, suffixed with the
// date, the first time it is written to on a new day.
type DailyFile struct {
	mu   sync.Mutex
	dir  string
	name string
	now  func() time.Time
	day  string
	f    *os.File
}

// NewDailyFile creates a DailyFile writing <dir>/<name>.<YYYY-MM-DD>
func NewDailyFile(dir, name string) *DailyFile {
	return &DailyFile{dir: dir, name: name, now: time.Now}
}

// Path returns the file the next write on the current day goes to
func (d *DailyFile) Path() string {
	return d.pathFor(d.now().Format(dayLayout))
}

func (d *DailyFile) pathFor(day string) string {
	return filepath.Join(d.dir, fmt.Sprintf("%s.%s", d.name, day))
}

func (d *DailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	day := d.now().Format(dayLayout)
	if d.f == nil || day != d.day {
		if err := d.rotate(day); err != nil {
			return 0, err
		}
	}
	return d.f.Write(p)
}

func (d *DailyFile) rotate(day string) error {
	if d.f != nil {
		d.f.Close()
		d.f = nil
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(d.pathFor(day), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	d.f = f
	d.day = day
	return nil
}

// Close closes the current file
func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}
