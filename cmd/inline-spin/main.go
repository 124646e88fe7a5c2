// inline spinner: like gum spin / ora
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	. "github.com/kungfusheep/inline"
)

type finished struct{}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path, err := DefaultConfigPath()
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		log.Fatal(err)
	}
	spin := spinner.Dot
	cfg.TickMillis = int(spin.FPS / time.Millisecond)

	accent := DefaultStyle().Foreground(Cyan)
	success := DefaultStyle().Foreground(Green).Bold()

	root := Component("Spinner", func(h *Hooks) Element {
		frame := State(h, 0)
		status := State(h, "Resolving packages...")
		done := State(h, false)

		h.Tick(func(time.Time) {
			if !done.Get() {
				frame.Update(func(f int) int { return (f + 1) % len(spin.Frames) })
			}
		})
		h.Message(func(msg any) {
			switch m := msg.(type) {
			case string:
				status.Set(m)
			case finished:
				done.Set(true)
				status.Set("Done!")
				h.Exit()
			}
		})

		glyph := StyledText(spin.Frames[frame.Get()], accent)
		if done.Get() {
			glyph = StyledText("✓ ", success)
		}
		return HBox(glyph, Text(status.Get()))
	})

	app := NewApp(root, WithConfig(cfg))

	go func() {
		steps := []string{
			"Downloading dependencies...",
			"Linking binaries...",
			"Writing lockfile...",
		}
		prev := "Resolved packages"
		for _, s := range steps {
			time.Sleep(800 * time.Millisecond)
			app.Printf("  %s", prev)
			if err := app.Send(ctx, s); err != nil {
				return
			}
			prev = s
		}
		time.Sleep(800 * time.Millisecond)
		_ = app.Send(ctx, finished{})
	}()

	reason, err := app.Run(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if reason != ExitRequested {
		fmt.Fprintln(os.Stderr, "cancelled")
		os.Exit(130)
	}
}
