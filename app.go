package inline

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
)

// ExitReason says why Run returned.
type ExitReason int

const (
	ExitRequested   ExitReason = iota // a component called Exit
	ExitUser                          // a quit key was pressed
	ExitCanceled                      // the context was canceled
	ExitInputClosed                   // the event source ran dry
	ExitError                         // the terminal could not be written
)

func (r ExitReason) String() string {
	switch r {
	case ExitRequested:
		return "requested"
	case ExitUser:
		return "user"
	case ExitCanceled:
		return "canceled"
	case ExitInputClosed:
		return "input closed"
	case ExitError:
		return "error"
	}
	return fmt.Sprintf("ExitReason(%d)", int(r))
}

// App runs the render loop for one root element: wait for an event,
// dispatch it to the components' handlers, and render once if anything
// changed.
type App struct {
	cfg    Config
	root   Element
	out    io.Writer
	source EventSource

	width, height int
	sized         bool

	rt       *Runtime
	renderer *Renderer
	quit     key.Binding
	messages chan any

	staticMu sync.Mutex
	static   []string

	force    bool // next frame ignores the frame cap
	exiting  bool
	reason   ExitReason
	throttle <-chan time.Time
}

// Option configures an App.
type Option func(*App)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(a *App) { a.cfg = cfg }
}

// WithOutput draws on w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithSource reads events from src instead of the terminal.
func WithSource(src EventSource) Option {
	return func(a *App) { a.source = src }
}

// WithSize fixes the viewport instead of querying the terminal.
func WithSize(width, height int) Option {
	return func(a *App) {
		a.width, a.height = width, height
		a.sized = true
	}
}

// NewApp creates an app rendering root.
func NewApp(root Element, opts ...Option) *App {
	a := &App{
		cfg:  DefaultConfig(),
		root: root,
		out:  os.Stdout,
		rt:   NewRuntime(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.cfg.normalize()
	a.messages = make(chan any, a.cfg.MessageBuffer)
	a.quit = key.NewBinding(key.WithKeys(a.cfg.QuitKeys...))
	return a
}

// Run mounts the app and runs it until a component exits, a quit key is
// pressed, ctx is canceled or the input ends. The last frame is left on
// screen.
func Run(ctx context.Context, root Element, opts ...Option) (ExitReason, error) {
	return NewApp(root, opts...).Run(ctx)
}

// Run mounts the app and blocks until it exits.
func (a *App) Run(ctx context.Context) (ExitReason, error) {
	if a.cfg.DebugLog != "" {
		if err := EnableDebug(a.cfg.DebugLog); err == nil {
			defer CloseDebug()
		}
	}
	if a.source == nil {
		a.source = NewTerminalSource(os.Stdin, a.out)
	}

	if err := a.mount(); err != nil {
		a.unmount()
		return ExitError, err
	}
	if err := a.source.Start(ctx); err != nil {
		a.unmount()
		return ExitError, fmt.Errorf("start input: %w", err)
	}

	reason, err := a.loop(ctx)
	Debugf("app: exit (%v)", reason)

	if uerr := a.unmount(); err == nil && uerr != nil {
		reason, err = ExitError, uerr
	}
	if serr := a.source.Stop(); err == nil && serr != nil {
		err = fmt.Errorf("stop input: %w", serr)
	}
	return reason, err
}

// Send queues msg for the components' message handlers, blocking while the
// queue is full. Safe from any goroutine.
func (a *App) Send(ctx context.Context, msg any) error {
	select {
	case a.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend queues msg unless the queue is full.
func (a *App) TrySend(msg any) bool {
	select {
	case a.messages <- msg:
		return true
	default:
		return false
	}
}

// Println writes lines permanently above the live region with the next
// frame. Safe from any goroutine.
func (a *App) Println(lines ...string) {
	a.staticMu.Lock()
	a.static = append(a.static, lines...)
	a.staticMu.Unlock()
	a.rt.Wakeup()
}

// Printf is Println with formatting.
func (a *App) Printf(format string, args ...any) {
	a.Println(fmt.Sprintf(format, args...))
}

// Exit stops the loop after the current event. Safe from any goroutine.
func (a *App) Exit() { a.rt.RequestExit() }

func (a *App) mount() error {
	if !a.sized {
		w, h, err := TerminalSize(a.out)
		if err != nil {
			Debugf("app: terminal size: %v, using 80x24", err)
			w, h = 80, 24
		}
		a.width, a.height = w, h
	}
	w := NewInlineWriter(a.out,
		WithSynchronizedOutput(a.cfg.SynchronizedOutput),
		WithHiddenCursor(a.cfg.HideCursor),
	)
	a.renderer = NewRenderer(a.rt, w, a.width, a.height)
	a.renderer.SetMaxFPS(a.cfg.MaxFPS)
	return a.renderer.Render(a.root)
}

func (a *App) loop(ctx context.Context) (ExitReason, error) {
	var tick <-chan time.Time
	if d := a.cfg.TickInterval(); d > 0 {
		t := time.NewTicker(d)
		defer t.Stop()
		tick = t.C
	}
	events := a.source.Events()

	for {
		var ev Event
		select {
		case <-ctx.Done():
			return ExitCanceled, nil
		case e, ok := <-events:
			if !ok {
				return ExitInputClosed, nil
			}
			ev = e
		case msg := <-a.messages:
			ev = MessageEvent{Msg: msg}
		case t := <-tick:
			ev = TickEvent{Time: t}
		case <-a.rt.Wake():
		case <-a.throttle:
			a.throttle = nil
		}

		if ev != nil {
			if err := a.handle(ev); err != nil {
				return ExitError, err
			}
		}
		if !a.exiting && a.rt.ExitRequested() {
			a.stop(ExitRequested)
		}
		if err := a.step(time.Now()); err != nil {
			return ExitError, err
		}
		if a.exiting {
			return a.reason, nil
		}
	}
}

// handle dispatches one event.
func (a *App) handle(ev Event) error {
	switch ev := ev.(type) {
	case KeyEvent:
		if a.cfg.ExitOnCtrlC && ev.Key.Matches(a.quit) {
			a.stop(ExitUser)
			return nil
		}
		a.rt.DispatchKey(ev.Key)
	case ResizeEvent:
		if w, h := a.renderer.Size(); w == ev.Width && h == ev.Height {
			return nil
		}
		Debugf("app: resize to %dx%d", ev.Width, ev.Height)
		a.force = true
		return a.renderer.Resize(ev.Width, ev.Height)
	case TickEvent:
		a.rt.DispatchTick(ev.Time)
	case MessageEvent:
		a.rt.DispatchMessage(ev.Msg)
	}
	return nil
}

// step renders at most one frame, if anything changed since the last one.
// Within the frame cap the render is deferred to a timer instead.
func (a *App) step(now time.Time) error {
	a.staticMu.Lock()
	if len(a.static) > 0 {
		a.renderer.Print(a.static...)
		a.static = a.static[:0]
	}
	a.staticMu.Unlock()

	if !a.force && !a.rt.Dirty() && !a.renderer.HasPending() {
		return nil
	}
	if !a.force && !a.exiting {
		if wait := a.renderer.Wait(now); wait > 0 {
			if a.throttle == nil {
				a.throttle = time.After(wait)
			}
			return nil
		}
	}
	a.force = false
	return a.renderer.Render(a.root)
}

func (a *App) stop(reason ExitReason) {
	a.exiting = true
	a.reason = reason
}

// unmount runs effect cleanups and releases the terminal.
func (a *App) unmount() error {
	a.rt.Unmount()
	if a.renderer == nil {
		return nil
	}
	a.staticMu.Lock()
	if len(a.static) > 0 {
		a.renderer.Print(a.static...)
		a.static = nil
	}
	a.staticMu.Unlock()
	return a.renderer.Unmount()
}
