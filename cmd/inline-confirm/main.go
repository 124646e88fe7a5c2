// inline confirm prompt: like gum confirm / rm -i
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/key"
	. "github.com/kungfusheep/inline"
)

var (
	yes = key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes"))
	no  = key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no"))
)

func main() {
	path, err := DefaultConfigPath()
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		log.Fatal(err)
	}

	confirmed := false
	root := Component("Confirm", func(h *Hooks) Element {
		h.Input(func(k Key) {
			switch {
			case k.Matches(yes):
				confirmed = true
				h.Exit()
			case k.Matches(no):
				h.Exit()
			}
		})
		return HBox(
			StyledText("Delete 3 files? ", DefaultStyle().Bold()),
			StyledText("(y/n)", DefaultStyle().Foreground(BrightBlack)),
		)
	})

	if _, err := Run(context.Background(), root, WithConfig(cfg)); err != nil {
		log.Fatal(err)
	}
	if confirmed {
		fmt.Println("✓ Deleted 3 files")
	} else {
		fmt.Println("✗ Cancelled")
	}
}
