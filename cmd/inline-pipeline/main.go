// inline deploy pipeline: like railway deploy / vercel
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

type started struct{ step int }

type finished struct {
	step int
	took time.Duration
}

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
	spin := spinner.MiniDot
	cfg.TickMillis = int(spin.FPS / time.Millisecond)

	steps := []string{"Build", "Test", "Push image", "Deploy", "Health check"}
	muted := DefaultStyle().Foreground(BrightBlack)
	ok := DefaultStyle().Foreground(Green).Bold()

	var app *App
	root := Component("Pipeline", func(h *Hooks) Element {
		current := State(h, -1)
		complete := State(h, 0)
		frame := State(h, 0)

		h.Tick(func(time.Time) {
			if current.Get() >= 0 {
				frame.Update(func(f int) int { return (f + 1) % len(spin.Frames) })
			}
		})
		h.Message(func(msg any) {
			switch m := msg.(type) {
			case started:
				current.Set(m.step)
			case finished:
				complete.Set(m.step + 1)
				app.Printf("  %s finished in %v", steps[m.step], m.took.Round(time.Millisecond))
				if m.step == len(steps)-1 {
					current.Set(-1)
					h.Exit()
				}
			}
		})

		rows := make([]Element, len(steps))
		for i, name := range steps {
			icon, status := StyledText("○", muted), "pending"
			switch {
			case i < complete.Get():
				icon, status = StyledText("✓", ok), "done"
			case i == current.Get():
				icon, status = Text(spin.Frames[frame.Get()]), "running"
			}
			rows[i] = HBox(
				icon,
				TextWith(TextProps{Content: " " + name, Layout: LayoutStyle{Width: Cells(16)}}),
				StyledText(status, muted),
			)
		}
		return VBox(rows...)
	})
	app = NewApp(root, WithConfig(cfg))

	go func() {
		for i := range steps {
			if err := app.Send(ctx, started{step: i}); err != nil {
				return
			}
			took := 400*time.Millisecond + time.Duration(i*200)*time.Millisecond
			time.Sleep(took)
			if err := app.Send(ctx, finished{step: i, took: took}); err != nil {
				return
			}
		}
	}()

	reason, err := app.Run(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if reason != ExitRequested {
		os.Exit(130)
	}
	fmt.Println("Deployed to production!")
}
