package inline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Debug logging goes to a file, never to the terminal the UI is drawn on.
// Set INLINE_DEBUG to a path to enable it at startup.

var (
	debugMu   sync.Mutex
	debugOut  io.Writer // nil when disabled
	debugFile *os.File  // owned by EnableDebug; closed by CloseDebug
)

func init() {
	if path := os.Getenv("INLINE_DEBUG"); path != "" {
		_ = EnableDebug(path)
	}
}

// EnableDebug starts logging to the file at path, truncating it. Any earlier
// log destination is closed.
func EnableDebug(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	debugMu.Lock()
	defer debugMu.Unlock()
	closeLocked()
	debugFile, debugOut = f, f
	logLocked("debug logging enabled (pid %d)", os.Getpid())
	return nil
}

// SetDebugOutput sends debug lines to w, which the caller keeps ownership
// of. A nil w turns logging off.
func SetDebugOutput(w io.Writer) {
	debugMu.Lock()
	defer debugMu.Unlock()
	closeLocked()
	debugOut = w
}

// CloseDebug stops logging and closes the file opened by EnableDebug.
func CloseDebug() {
	debugMu.Lock()
	defer debugMu.Unlock()
	closeLocked()
}

func closeLocked() {
	if debugFile != nil {
		_ = debugFile.Close()
		debugFile = nil
	}
	debugOut = nil
}

// DebugEnabled reports whether debug lines are being written.
func DebugEnabled() bool {
	debugMu.Lock()
	defer debugMu.Unlock()
	return debugOut != nil
}

// Debugf writes one timestamped line when logging is on.
func Debugf(format string, args ...any) {
	debugMu.Lock()
	defer debugMu.Unlock()
	logLocked(format, args...)
}

func logLocked(format string, args ...any) {
	if debugOut == nil {
		return
	}
	_, _ = fmt.Fprintf(debugOut, "[%s] %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}

// FrameTrace times the phases of one frame and logs them as a single line:
//
//	frame 12: resolve=41µs layout=18µs paint=9µs write=30µs effects=1µs total=99µs lines=3
//
// traceFrame returns nil when logging is off; every method accepts a nil
// receiver so callers never check.
type FrameTrace struct {
	frame  int
	start  time.Time
	mark   time.Time
	phases []string
}

func traceFrame(frame int) *FrameTrace {
	if !DebugEnabled() {
		return nil
	}
	now := time.Now()
	return &FrameTrace{frame: frame, start: now, mark: now}
}

// Phase records the time since the previous phase under name.
func (t *FrameTrace) Phase(name string) {
	if t == nil {
		return
	}
	now := time.Now()
	t.phases = append(t.phases, name+"="+now.Sub(t.mark).String())
	t.mark = now
}

// Done logs the frame.
func (t *FrameTrace) Done(lines int) {
	if t == nil {
		return
	}
	Debugf("frame %d: %s total=%v lines=%d", t.frame, strings.Join(t.phases, " "), time.Since(t.start), lines)
}
