// inline counter: up/down to change, q to quit
package main

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	. "github.com/kungfusheep/inline"
)

var keys = struct {
	Up, Down, Quit key.Binding
}{
	Up:   key.NewBinding(key.WithKeys("up", "k", "+"), key.WithHelp("↑/k", "increment")),
	Down: key.NewBinding(key.WithKeys("down", "j", "-"), key.WithHelp("↓/j", "decrement")),
	Quit: key.NewBinding(key.WithKeys("q", "enter"), key.WithHelp("q", "done")),
}

func help(bindings ...key.Binding) string {
	s := ""
	for i, b := range bindings {
		if i > 0 {
			s += "  "
		}
		s += b.Help().Key + " " + b.Help().Desc
	}
	return s
}

func main() {
	path, err := DefaultConfigPath()
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		log.Fatal(err)
	}

	theme := ThemeDark
	var final int
	root := Component("Counter", func(h *Hooks) Element {
		count := State(h, 0)
		h.Input(func(k Key) {
			switch {
			case k.Matches(keys.Up):
				count.Update(func(n int) int { return n + 1 })
			case k.Matches(keys.Down):
				count.Update(func(n int) int { return n - 1 })
			case k.Matches(keys.Quit):
				final = count.Get()
				h.Exit()
			}
		})
		return VBox(
			theme.Panel(LayoutStyle{Width: Cells(20)},
				theme.Text("Count: "+strconv.Itoa(count.Get())),
			),
			theme.MutedText(help(keys.Up, keys.Down, keys.Quit)),
		)
	})

	reason, err := Run(context.Background(), root, WithConfig(cfg))
	if err != nil {
		log.Fatal(err)
	}
	if reason == ExitRequested {
		fmt.Println(final)
	}
}
