package inline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxFPS = 0
	cfg.TickMillis = 0
	cfg.SynchronizedOutput = false
	cfg.HideCursor = false
	return cfg
}

func newTestApp(root Element, src *ChanSource, out *bytes.Buffer, cfg Config) *App {
	return NewApp(root,
		WithConfig(cfg),
		WithOutput(out),
		WithSource(src),
		WithSize(20, 5),
	)
}

func TestAppRun(t *testing.T) {
	t.Run("three writes in one handler render once", func(t *testing.T) {
		root := Component("C", func(h *Hooks) Element {
			a, b, c := State(h, 0), State(h, 0), State(h, 0)
			h.Input(func(Key) {
				a.Set(1)
				b.Set(2)
				c.Update(func(v int) int { return v + 1 })
			})
			return Text(fmt.Sprintf("%d %d %d", a.Get(), b.Get(), c.Get()))
		})
		src := NewChanSource(4)
		src.Push(KeyEvent{Key: RuneKey('x')})
		src.Close()
		var out bytes.Buffer
		app := newTestApp(root, src, &out, testConfig())

		reason, err := app.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if reason != ExitInputClosed {
			t.Errorf("expected %v, got %v", ExitInputClosed, reason)
		}
		if app.renderer.Frames() != 2 {
			t.Errorf("expected 2 frames, got %d", app.renderer.Frames())
		}
		if app.rt.Renders() != 2 {
			t.Errorf("expected 2 renders, got %d", app.rt.Renders())
		}
		if got := strings.Join(app.renderer.Lines(), "\n"); got != "1 2 1" {
			t.Errorf("expected 1 2 1, got %q", got)
		}
	})

	t.Run("quit key exits without rendering", func(t *testing.T) {
		src := NewChanSource(1)
		src.Push(KeyEvent{Key: NewKey(KeyCtrlC)})
		var out bytes.Buffer
		app := newTestApp(Text("hi"), src, &out, testConfig())

		reason, err := app.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if reason != ExitUser {
			t.Errorf("expected %v, got %v", ExitUser, reason)
		}
		if app.renderer.Frames() != 1 {
			t.Errorf("expected 1 frame, got %d", app.renderer.Frames())
		}
		if !strings.HasSuffix(out.String(), "hi\r\n"+sgrReset) {
			t.Errorf("expected last frame left on screen, got %q", out.String())
		}
	})

	t.Run("custom quit keys", func(t *testing.T) {
		cfg := testConfig()
		cfg.QuitKeys = []string{"q", "esc"}
		src := NewChanSource(1)
		src.Push(KeyEvent{Key: NewKey(KeyEsc)})
		var out bytes.Buffer
		reason, err := newTestApp(Text("hi"), src, &out, cfg).Run(context.Background())
		if err != nil || reason != ExitUser {
			t.Errorf("expected %v, got %v (%v)", ExitUser, reason, err)
		}
	})

	t.Run("ctrl+c reaches handlers when exit is disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.ExitOnCtrlC = false
		var got string
		root := Component("C", func(h *Hooks) Element {
			h.Input(func(k Key) {
				got = k.String()
				h.Exit()
			})
			return Text("hi")
		})
		src := NewChanSource(1)
		src.Push(KeyEvent{Key: NewKey(KeyCtrlC)})
		var out bytes.Buffer
		reason, err := newTestApp(root, src, &out, cfg).Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if reason != ExitRequested || got != "ctrl+c" {
			t.Errorf("expected requested exit after ctrl+c, got %v and %q", reason, got)
		}
	})

	t.Run("exit renders the final state change", func(t *testing.T) {
		root := Component("C", func(h *Hooks) Element {
			status := State(h, "working")
			h.Input(func(Key) {
				status.Set("done")
				h.Exit()
			})
			return Text(status.Get())
		})
		src := NewChanSource(1)
		src.Push(KeyEvent{Key: NewKey(KeyEnter)})
		var out bytes.Buffer
		app := newTestApp(root, src, &out, testConfig())

		reason, err := app.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if reason != ExitRequested {
			t.Errorf("expected %v, got %v", ExitRequested, reason)
		}
		if app.renderer.Frames() != 2 {
			t.Errorf("expected 2 frames, got %d", app.renderer.Frames())
		}
		if got := strings.Join(app.renderer.Lines(), "\n"); got != "done" {
			t.Errorf("expected done, got %q", got)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var out bytes.Buffer
		reason, err := newTestApp(Text("hi"), NewChanSource(0), &out, testConfig()).Run(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if reason != ExitCanceled {
			t.Errorf("expected %v, got %v", ExitCanceled, reason)
		}
	})

	t.Run("resize forces a full rewrite", func(t *testing.T) {
		src := NewChanSource(2)
		src.Push(ResizeEvent{Width: 30, Height: 5})
		src.Close()
		var out bytes.Buffer
		app := newTestApp(Text("hi"), src, &out, testConfig())
		if _, err := app.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "hi\r\n\x1b[1A\r\x1b[J\rhi\r\n") {
			t.Errorf("expected erase and rewrite after resize, got %q", out.String())
		}
		if app.renderer.Frames() != 2 {
			t.Errorf("expected 2 frames, got %d", app.renderer.Frames())
		}
	})

	t.Run("resize to the same size is ignored", func(t *testing.T) {
		src := NewChanSource(2)
		src.Push(ResizeEvent{Width: 20, Height: 5})
		src.Close()
		var out bytes.Buffer
		app := newTestApp(Text("hi"), src, &out, testConfig())
		if _, err := app.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		if app.renderer.Frames() != 1 {
			t.Errorf("expected 1 frame, got %d", app.renderer.Frames())
		}
	})

	t.Run("messages and printed lines", func(t *testing.T) {
		root := Component("C", func(h *Hooks) Element {
			text := State(h, "waiting")
			h.Message(func(msg any) {
				text.Set(msg.(string))
				h.Exit()
			})
			return Text(text.Get())
		})
		var out bytes.Buffer
		app := newTestApp(root, NewChanSource(0), &out, testConfig())
		app.Println("log line")
		if !app.TrySend("hello") {
			t.Fatal("expected message queued")
		}

		reason, err := app.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if reason != ExitRequested {
			t.Errorf("expected %v, got %v", ExitRequested, reason)
		}
		if !strings.Contains(out.String(), "log line\r\n") {
			t.Errorf("expected printed line in output, got %q", out.String())
		}
		if got := strings.Join(app.renderer.Lines(), "\n"); got != "hello" {
			t.Errorf("expected hello, got %q", got)
		}
	})

	t.Run("ticks reach handlers", func(t *testing.T) {
		cfg := testConfig()
		cfg.TickMillis = 1
		root := Component("C", func(h *Hooks) Element {
			h.Tick(func(time.Time) { h.Exit() })
			return Text("tick")
		})
		var out bytes.Buffer
		reason, err := newTestApp(root, NewChanSource(0), &out, cfg).Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if reason != ExitRequested {
			t.Errorf("expected %v, got %v", ExitRequested, reason)
		}
	})

	t.Run("effects cleaned up on exit", func(t *testing.T) {
		cleaned := false
		root := Component("C", func(h *Hooks) Element {
			h.Effect(func() func() {
				return func() { cleaned = true }
			})
			return Text("x")
		})
		src := NewChanSource(0)
		src.Close()
		var out bytes.Buffer
		if _, err := newTestApp(root, src, &out, testConfig()).Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		if !cleaned {
			t.Error("expected effect cleanup on unmount")
		}
	})

	t.Run("write error ends the run", func(t *testing.T) {
		sink := &flakyWriter{fail: true}
		app := NewApp(Text("x"),
			WithConfig(testConfig()),
			WithOutput(sink),
			WithSource(NewChanSource(0)),
			WithSize(20, 5),
		)
		reason, err := app.Run(context.Background())
		if reason != ExitError {
			t.Errorf("expected %v, got %v", ExitError, reason)
		}
		var werr *WriteError
		if !errors.As(err, &werr) || !errors.Is(err, errSinkGone) {
			t.Errorf("expected write error, got %v", err)
		}
	})
}

func TestAppThrottle(t *testing.T) {
	cfg := testConfig()
	cfg.MaxFPS = 10
	var sig *Signal[int]
	root := Component("C", func(h *Hooks) Element {
		sig = State(h, 0)
		return Text(fmt.Sprint(sig.Get()))
	})
	var out bytes.Buffer
	app := newTestApp(root, NewChanSource(0), &out, cfg)
	if err := app.mount(); err != nil {
		t.Fatal(err)
	}

	sig.Set(1)
	sig.Set(2)
	now := time.Now()
	if err := app.step(now); err != nil {
		t.Fatal(err)
	}
	if app.renderer.Frames() != 1 {
		t.Fatalf("expected render deferred, got %d frames", app.renderer.Frames())
	}
	if app.throttle == nil {
		t.Fatal("expected a deferred render timer")
	}

	if err := app.step(now.Add(200 * time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if app.renderer.Frames() != 2 {
		t.Errorf("expected 2 frames, got %d", app.renderer.Frames())
	}
	if got := strings.Join(app.renderer.Lines(), ""); got != "2" {
		t.Errorf("expected 2, got %q", got)
	}
}

func TestAppSend(t *testing.T) {
	cfg := testConfig()
	cfg.MessageBuffer = 1
	var out bytes.Buffer
	app := newTestApp(Text("x"), NewChanSource(0), &out, cfg)

	if err := app.Send(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	if app.TrySend("b") {
		t.Error("expected full queue to reject")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := app.Send(ctx, "c"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestExitReasonString(t *testing.T) {
	tests := []struct {
		reason ExitReason
		want   string
	}{
		{ExitRequested, "requested"},
		{ExitUser, "user"},
		{ExitCanceled, "canceled"},
		{ExitInputClosed, "input closed"},
		{ExitError, "error"},
		{ExitReason(42), "ExitReason(42)"},
	}
	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
