package inline

import (
	"bytes"
	"io"
	"os"
)

// Control sequences used by the inline writer.
const (
	seqEraseLine  = "\x1b[K" // erase from cursor to end of line
	seqEraseBelow = "\x1b[J" // erase from cursor to end of screen
	seqDown       = "\x1b[1B"
	seqSyncBegin  = "\x1b[?2026h"
	seqSyncEnd    = "\x1b[?2026l"
	seqHideCursor = "\x1b[?25l"
	seqShowCursor = "\x1b[?25h"
	seqNewline    = "\r\n"
	seqColumnZero = "\r"
)

// InlineWriter owns a block of rows at the bottom of the terminal's normal
// scrollback and rewrites only those rows.
//
// Between frames the cursor rests at column 0 of the row just below the last
// written line, so anything written after Unmount appends below the UI.
//
// Each frame is assembled in memory and handed to the sink in a single Write.
// If that Write fails the writer marks its state unknown and works out from
// the bytes that did land where the cursor now sits relative to the top of
// the region. The next frame moves back up to that top, clears everything
// below it and writes every line fresh.
type InlineWriter struct {
	out io.Writer
	buf bytes.Buffer

	lineCount int  // rows between the top of the region and the cursor
	unknown   bool // last write failed; screen contents unknown
	unmounted bool

	sync         bool
	hideCursor   bool
	cursorHidden bool
	hiding       bool // current buffer hides the cursor

	frames int
}

// WriterOption configures an InlineWriter.
type WriterOption func(*InlineWriter)

// WithSynchronizedOutput wraps each frame in DEC mode 2026 so terminals that
// support it present the frame atomically.
func WithSynchronizedOutput(on bool) WriterOption {
	return func(w *InlineWriter) { w.sync = on }
}

// WithHiddenCursor hides the cursor while the writer is mounted.
func WithHiddenCursor(on bool) WriterOption {
	return func(w *InlineWriter) { w.hideCursor = on }
}

// NewInlineWriter creates a writer over out. Pass nil to use os.Stdout.
func NewInlineWriter(out io.Writer, opts ...WriterOption) *InlineWriter {
	if out == nil {
		out = os.Stdout
	}
	w := &InlineWriter{out: out}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// LineCount returns the number of rows the writer currently owns.
func (w *InlineWriter) LineCount() int { return w.lineCount }

// Unknown reports whether the last write failed, forcing a full rewrite next.
func (w *InlineWriter) Unknown() bool { return w.unknown }

// Frames returns the number of frames written successfully.
func (w *InlineWriter) Frames() int { return w.frames }

// Render replaces the owned rows with lines.
func (w *InlineWriter) Render(lines []string) error {
	return w.RenderWithStatic(nil, lines)
}

// RenderWithStatic writes static lines permanently above the live region and
// then renders lines below them, in one write. Static lines scroll away with
// normal output and are never touched again.
func (w *InlineWriter) RenderWithStatic(static, lines []string) error {
	if w.unmounted {
		return ErrUnmounted
	}
	w.buf.Reset()
	w.begin()
	w.moveToTop()

	if w.unknown || len(static) > 0 {
		if w.lineCount > 0 || w.unknown {
			w.buf.WriteString(seqEraseBelow)
		}
		for _, line := range static {
			w.buf.WriteString(line)
			w.buf.WriteString(seqNewline)
		}
		for _, line := range lines {
			w.buf.WriteString(line)
			w.buf.WriteString(seqNewline)
		}
	} else {
		w.patch(lines)
	}
	w.end()

	if err := w.flush("render"); err != nil {
		return err
	}
	w.lineCount = len(lines)
	w.frames++
	return nil
}

// patch rewrites the owned rows in place, erasing each reused row before
// writing it and collapsing any rows the new frame no longer needs.
func (w *InlineWriter) patch(lines []string) {
	prev := w.lineCount
	for i, line := range lines {
		if i < prev {
			w.buf.WriteString(seqEraseLine)
		}
		w.buf.WriteString(line)
		w.buf.WriteString(seqNewline)
	}

	surplus := prev - len(lines)
	if surplus <= 0 {
		return
	}
	// cursor is on the first stale row
	for i := 0; i < surplus; i++ {
		w.buf.WriteString(seqEraseLine)
		if i < surplus-1 {
			w.buf.WriteString(seqDown)
		}
	}
	if surplus > 1 {
		w.writeCursorUp(surplus - 1)
	}
}

// Print writes lines permanently above the live region and gives up the rows
// the live region held. The next Render draws below the printed lines.
func (w *InlineWriter) Print(lines ...string) error {
	if w.unmounted {
		return ErrUnmounted
	}
	w.buf.Reset()
	w.begin()
	w.moveToTop()
	if w.lineCount > 0 || w.unknown {
		w.buf.WriteString(seqEraseBelow)
	}
	for _, line := range lines {
		w.buf.WriteString(line)
		w.buf.WriteString(seqNewline)
	}
	w.end()
	if err := w.flush("print"); err != nil {
		return err
	}
	w.lineCount = 0
	return nil
}

// Clear erases the owned rows and leaves the cursor where they began.
func (w *InlineWriter) Clear() error {
	return w.release("clear")
}

// HandleResize discards the owned rows after a terminal resize. Their old
// geometry is no longer valid, so the next Render is a full rewrite.
func (w *InlineWriter) HandleResize() error {
	return w.release("resize")
}

func (w *InlineWriter) release(op string) error {
	if w.unmounted {
		return ErrUnmounted
	}
	if w.lineCount == 0 && !w.unknown {
		return nil
	}
	w.buf.Reset()
	w.moveToTop()
	w.buf.WriteString(seqEraseBelow)
	if err := w.flush(op); err != nil {
		return err
	}
	w.lineCount = 0
	return nil
}

// Unmount hands the terminal back. The cursor is already below the last
// frame, so this only restores the cursor and style and forgets the rows.
// Further renders fail with ErrUnmounted.
func (w *InlineWriter) Unmount() error {
	if w.unmounted {
		return nil
	}
	w.unmounted = true
	w.lineCount = 0
	w.buf.Reset()
	w.buf.WriteString(sgrReset)
	if w.cursorHidden {
		w.buf.WriteString(seqShowCursor)
	}
	return w.flush("unmount")
}

func (w *InlineWriter) begin() {
	if w.sync {
		w.buf.WriteString(seqSyncBegin)
	}
	if w.hideCursor && !w.cursorHidden {
		w.buf.WriteString(seqHideCursor)
		w.hiding = true
	}
}

func (w *InlineWriter) end() {
	if w.sync {
		w.buf.WriteString(seqSyncEnd)
	}
}

func (w *InlineWriter) moveToTop() {
	if w.lineCount > 0 {
		w.writeCursorUp(w.lineCount)
	}
	w.buf.WriteString(seqColumnZero)
}

func (w *InlineWriter) writeCursorUp(n int) {
	var scratch [16]byte
	b := append(scratch[:0], "\x1b["...)
	b = appendInt(b, n)
	b = append(b, 'A')
	w.buf.Write(b)
}

// flush issues the assembled buffer as one write.
func (w *InlineWriter) flush(op string) error {
	hiding := w.hiding
	w.hiding = false
	n, err := w.out.Write(w.buf.Bytes())
	if err == nil && n < w.buf.Len() {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.unknown = true
		w.lineCount = cursorRow(w.buf.Bytes()[:min(max(n, 0), w.buf.Len())], w.lineCount)
		Debugf("writer: %s failed after %d bytes, cursor %d rows below top", op, n, w.lineCount)
		return &WriteError{Op: op, Written: n, Err: err}
	}
	w.unknown = false
	if hiding {
		w.cursorHidden = true
	}
	return nil
}

// cursorRow replays the vertical movement in p, starting row rows below the
// top of the region, and returns where the cursor ends up. Only the moves the
// writer itself emits are tracked: newlines and CSI A/B.
func cursorRow(p []byte, row int) int {
	for i := 0; i < len(p); i++ {
		switch {
		case p[i] == '\n':
			row++
		case p[i] == 0x1b && i+1 < len(p) && p[i+1] == '[':
			j, n := i+2, 0
			for j < len(p) && p[j] >= '0' && p[j] <= '9' {
				n = n*10 + int(p[j]-'0')
				j++
			}
			if j >= len(p) {
				return row
			}
			if n == 0 {
				n = 1
			}
			switch p[j] {
			case 'A':
				row = max(row-n, 0)
			case 'B':
				row += n
			}
			i = j
		}
	}
	return row
}
