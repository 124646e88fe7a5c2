// inline multi-progress: like docker pull / cargo build
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	. "github.com/kungfusheep/inline"
)

const barWidth = 30

type progress struct {
	layer int
	pct   int
}

type pulled struct{}

func bar(pct int) string {
	filled := pct * barWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
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

	names := []string{"sha256:a1b2c3", "sha256:d4e5f6", "sha256:78abcd", "sha256:ef0123"}
	muted := DefaultStyle().Foreground(BrightBlack)
	accent := DefaultStyle().Foreground(Cyan)

	var app *App
	root := Component("Pull", func(h *Hooks) Element {
		pct := State(h, make([]int, len(names)))

		h.Message(func(msg any) {
			switch m := msg.(type) {
			case progress:
				pct.Update(func(p []int) []int {
					next := append([]int(nil), p...)
					next[m.layer] = m.pct
					return next
				})
				if m.pct == 100 {
					app.Printf("%s: pull complete", names[m.layer])
				}
			case pulled:
				h.Exit()
			}
		})

		rows := make([]Element, len(names))
		for i, name := range names {
			status := "pulling"
			if pct.Get()[i] == 100 {
				status = "✓ done"
			}
			rows[i] = HBox(
				TextWith(TextProps{Content: name, Style: muted, Layout: LayoutStyle{Width: Cells(15)}}),
				StyledText(bar(pct.Get()[i]), accent),
				Text(fmt.Sprintf(" %3d%% %s", pct.Get()[i], status)),
			)
		}
		return VBox(rows...)
	})
	app = NewApp(root, WithConfig(cfg))

	go func() {
		pct := make([]int, len(names))
		for {
			done := true
			for i := range pct {
				if pct[i] == 100 {
					continue
				}
				pct[i] = min(pct[i]+1+rand.Intn(4), 100)
				if err := app.Send(ctx, progress{layer: i, pct: pct[i]}); err != nil {
					return
				}
				done = false
			}
			if done {
				time.Sleep(300 * time.Millisecond)
				_ = app.Send(ctx, pulled{})
				return
			}
			time.Sleep(60 * time.Millisecond)
		}
	}()

	reason, err := app.Run(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if reason != ExitRequested {
		os.Exit(130)
	}
	fmt.Println("Pull complete!")
}
