// Package logging writes per-session log files and tail output.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

const logExt = ".log"

// Options configures the session logger.
type Options struct {
	Level      string
	Format     string
	Timestamps bool
	Caller     bool
	Prefix     string
}

// SessionLogger manages one log file per program session.
type SessionLogger struct {
	Dir       string
	SessionID string
	LogPath   string

	logger *log.Logger
	file   *os.File
}

// NewSessionLogger creates baseDir if needed and opens <timestamp>-<pid>.log
// inside it. Every entry carries the session id.
func NewSessionLogger(baseDir string, opts Options) (*SessionLogger, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("log base dir is empty")
	}
	dir := filepath.Clean(baseDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	logPath := filepath.Join(dir, sessionFileName())
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	id := uuid.NewString()
	logger := New(file, opts).With("session", id)

	return &SessionLogger{
		Dir:       dir,
		SessionID: id,
		LogPath:   logPath,
		logger:    logger,
		file:      file,
	}, nil
}

// New returns a charmbracelet logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLogLevel(opts.Level),
		Formatter:       ParseLogFormatter(opts.Format),
		ReportTimestamp: opts.Timestamps,
		ReportCaller:    opts.Caller,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Logger returns the session logger. A nil SessionLogger yields a discarding logger.
func (s *SessionLogger) Logger() *log.Logger {
	if s == nil || s.logger == nil {
		return Discard()
	}
	return s.logger
}

// Close closes the log file.
func (s *SessionLogger) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func sessionFileName() string {
	return fmt.Sprintf("%s-%d%s", time.Now().UTC().Format("20060102-150405"), os.Getpid(), logExt)
}

// ParseLogLevel parses a string log level. Unknown levels map to info.
func ParseLogLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseLogFormatter parses a formatter name. Unknown names map to text.
func ParseLogFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// FindLatestLog finds the most recently modified session log in logDir.
// It returns "" without error when the directory does not exist.
func FindLatestLog(logDir string) (string, error) {
	sessions, err := FindSessions(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	if len(sessions) == 0 {
		return "", nil
	}
	return sessions[0].Path, nil
}

// Session describes one session log file.
type Session struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// FindSessions lists session logs in logDir, newest first.
func FindSessions(logDir string) ([]Session, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("read log dir: %w", err)
	}

	var sessions []Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), logExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		sessions = append(sessions, Session{
			Name:    strings.TrimSuffix(entry.Name(), logExt),
			Path:    filepath.Join(logDir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].ModTime.Equal(sessions[j].ModTime) {
			return sessions[i].Name > sessions[j].Name
		}
		return sessions[i].ModTime.After(sessions[j].ModTime)
	})
	return sessions, nil
}

// TailLog writes the log at path to w. With n > 0 only roughly the last n
// lines are written. With follow set it keeps copying new data until ctx ends.
func TailLog(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if n > 0 {
		if err := tailSeek(file, n); err != nil {
			return fmt.Errorf("seek to tail position: %w", err)
		}
	}

	if follow {
		return tailFollow(ctx, w, file)
	}

	_, err = io.Copy(w, file)
	return err
}

// tailSeek positions file at the start of the nth line from the end.
func tailSeek(file *os.File, n int) error {
	stat, err := file.Stat()
	if err != nil {
		return err
	}
	size := stat.Size()
	if size == 0 {
		return nil
	}

	const chunk = 4096
	buf := make([]byte, chunk)
	newlines := 0
	offset := size

	// A trailing newline terminates the last line rather than starting a new one.
	last := make([]byte, 1)
	if _, err := file.ReadAt(last, size-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		offset--
	}

	for offset > 0 {
		readSize := int64(chunk)
		if offset < readSize {
			readSize = offset
		}
		offset -= readSize
		if _, err := file.ReadAt(buf[:readSize], offset); err != nil && err != io.EOF {
			return err
		}
		for i := readSize - 1; i >= 0; i-- {
			if buf[i] != '\n' {
				continue
			}
			newlines++
			if newlines == n {
				_, err := file.Seek(offset+i+1, io.SeekStart)
				return err
			}
		}
	}

	_, err = file.Seek(0, io.SeekStart)
	return err
}

const (
	// followPoll backs up fsnotify on filesystems that drop events.
	followPoll = time.Second
	// pollInterval is used when no watcher is available.
	pollInterval = 100 * time.Millisecond
)

// tailFollow follows a file like tail -f. Writes are picked up from
// fsnotify events, with a slow poll as backstop.
func tailFollow(ctx context.Context, w io.Writer, file *os.File) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return pollFollow(ctx, w, file, pollInterval)
	}
	defer watcher.Close()
	if err := watcher.Add(file.Name()); err != nil {
		return pollFollow(ctx, w, file, pollInterval)
	}

	ticker := time.NewTicker(followPoll)
	defer ticker.Stop()

	for {
		if _, err := io.Copy(w, file); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return pollFollow(ctx, w, file, pollInterval)
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				// Drain what was written before the file went away.
				_, err := io.Copy(w, file)
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return pollFollow(ctx, w, file, pollInterval)
			}
			if err != nil {
				return fmt.Errorf("watching %s: %w", file.Name(), err)
			}
		case <-ticker.C:
		}
	}
}

func pollFollow(ctx context.Context, w io.Writer, file *os.File, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if _, err := io.Copy(w, file); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
