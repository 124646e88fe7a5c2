package inline

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Key is a decoded key press.
type Key struct {
	tea.Key
}

// KeyType identifies special keys; printable input is KeyRunes.
type KeyType = tea.KeyType

// Common key types.
const (
	KeyRunes     = tea.KeyRunes
	KeyEnter     = tea.KeyEnter
	KeyBackspace = tea.KeyBackspace
	KeyTab       = tea.KeyTab
	KeyShiftTab  = tea.KeyShiftTab
	KeyEsc       = tea.KeyEsc
	KeySpace     = tea.KeySpace
	KeyUp        = tea.KeyUp
	KeyDown      = tea.KeyDown
	KeyLeft      = tea.KeyLeft
	KeyRight     = tea.KeyRight
	KeyCtrlC     = tea.KeyCtrlC
)

// NewKey returns a key of type t.
func NewKey(t KeyType) Key {
	return Key{tea.Key{Type: t}}
}

// RuneKey returns the key press for a printable rune.
func RuneKey(r rune) Key {
	return Key{tea.Key{Type: tea.KeyRunes, Runes: []rune{r}}}
}

// Rune returns the printable rune of a single-rune key.
func (k Key) Rune() (rune, bool) {
	switch {
	case k.Type == tea.KeyRunes && len(k.Runes) == 1:
		return k.Runes[0], true
	case k.Type == tea.KeySpace:
		return ' ', true
	}
	return 0, false
}

// Matches reports whether k triggers any of the bindings.
func (k Key) Matches(bindings ...key.Binding) bool {
	return key.Matches(k, bindings...)
}

// Event is something the render loop reacts to.
type Event interface {
	isEvent()
}

// KeyEvent is a key press.
type KeyEvent struct{ Key Key }

// ResizeEvent reports the terminal's new size.
type ResizeEvent struct{ Width, Height int }

// TickEvent fires on the loop's tick interval.
type TickEvent struct{ Time time.Time }

// MessageEvent carries a value sent from another goroutine.
type MessageEvent struct{ Msg any }

func (KeyEvent) isEvent()     {}
func (ResizeEvent) isEvent()  {}
func (TickEvent) isEvent()    {}
func (MessageEvent) isEvent() {}

// EventSource produces key and resize events for the render loop. Events
// must be closed once the source has stopped producing.
type EventSource interface {
	Start(ctx context.Context) error
	Events() <-chan Event
	Stop() error
}

// TerminalSource reads keys from a terminal. It runs a bubbletea program
// with rendering disabled purely as a key decoder, so the inline writer stays
// the only thing drawing on the terminal.
type TerminalSource struct {
	in  io.Reader
	out io.Writer

	events   chan Event
	done     chan struct{}
	finished chan error

	prog     *tea.Program
	stopOnce sync.Once
	err      error
}

// NewTerminalSource reads from in, which it puts into raw mode if it is a
// terminal. out is only used to query the window size. nil means stdin and
// stdout.
func NewTerminalSource(in io.Reader, out io.Writer) *TerminalSource {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &TerminalSource{
		in:       in,
		out:      out,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
		finished: make(chan error, 1),
	}
}

// Events returns the channel of decoded events.
func (s *TerminalSource) Events() <-chan Event { return s.events }

// Start begins reading input until ctx is canceled or Stop is called.
func (s *TerminalSource) Start(ctx context.Context) error {
	if s.prog != nil {
		return errors.New("inline: terminal source already started")
	}
	s.prog = tea.NewProgram(forwarder{src: s},
		tea.WithContext(ctx),
		tea.WithInput(s.in),
		tea.WithOutput(s.out),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	go func() {
		defer close(s.events)
		_, err := s.prog.Run()
		s.finished <- err
	}()
	return nil
}

// Stop restores the terminal and waits for the reader to exit.
func (s *TerminalSource) Stop() error {
	if s.prog == nil {
		return nil
	}
	s.stopOnce.Do(func() {
		close(s.done)
		s.prog.Quit()
		err := <-s.finished
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			s.err = err
		}
		Debugf("input: stopped (err=%v)", err)
	})
	return s.err
}

// forwarder is the bubbletea model: it turns key and size messages into
// events and keeps no state of its own.
type forwarder struct {
	src *TerminalSource
}

func (f forwarder) Init() tea.Cmd { return nil }

func (f forwarder) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var ev Event
	switch msg := msg.(type) {
	case tea.KeyMsg:
		ev = KeyEvent{Key: Key{tea.Key(msg)}}
	case tea.WindowSizeMsg:
		ev = ResizeEvent{Width: msg.Width, Height: msg.Height}
	default:
		return f, nil
	}
	select {
	case f.src.events <- ev:
	case <-f.src.done:
	}
	return f, nil
}

func (f forwarder) View() string { return "" }

// ChanSource is an EventSource fed by Push. It suits tests and hosts that
// decode input themselves.
type ChanSource struct {
	events chan Event
	once   sync.Once
}

// NewChanSource creates a source buffering up to size events.
func NewChanSource(size int) *ChanSource {
	return &ChanSource{events: make(chan Event, size)}
}

// Push queues ev, blocking while the buffer is full.
func (s *ChanSource) Push(ev Event) { s.events <- ev }

// Close ends the stream; the loop then exits with ExitInputClosed.
func (s *ChanSource) Close() {
	s.once.Do(func() { close(s.events) })
}

func (s *ChanSource) Start(context.Context) error { return nil }
func (s *ChanSource) Events() <-chan Event        { return s.events }
func (s *ChanSource) Stop() error                 { return nil }
