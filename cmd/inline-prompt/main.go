// inline form prompt: like gum input chained / enquirer
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	. "github.com/kungfusheep/inline"
)

type field struct {
	label       string
	placeholder string
	mask        rune
}

var fields = []field{
	{label: "Name", placeholder: "your name"},
	{label: "Email", placeholder: "you@example.com"},
	{label: "Token", placeholder: "ghp_...", mask: '*'},
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
	var values [3]string
	submitted := false

	root := Component("Form", func(h *Hooks) Element {
		focus := UseFocus(h, 0, 1, 2)
		input := State(h, [3]string{})

		h.Input(func(k Key) {
			if k.Matches(focus.Bindings()...) {
				return
			}
			i := int(focus.Focused())
			switch k.Type {
			case KeyEnter:
				if i < len(fields)-1 {
					focus.Next()
					return
				}
				values, submitted = input.Get(), true
				h.Exit()
			case KeyEsc:
				h.Exit()
			case KeyBackspace:
				input.Update(func(v [3]string) [3]string {
					r := []rune(v[i])
					if len(r) > 0 {
						v[i] = string(r[:len(r)-1])
					}
					return v
				})
			default:
				if r, ok := k.Rune(); ok {
					input.Update(func(v [3]string) [3]string {
						v[i] += string(r)
						return v
					})
				}
			}
		})

		rows := make([]Element, len(fields))
		v := input.Get()
		for i, f := range fields {
			label := theme.MutedText(fmt.Sprintf("%-6s", f.label))
			if focus.IsFocused(FocusID(i)) {
				label = theme.AccentText(fmt.Sprintf("%-6s", f.label))
			}
			var value Element
			switch {
			case v[i] == "":
				value = theme.MutedText(f.placeholder)
			case f.mask != 0:
				value = theme.Text(strings.Repeat(string(f.mask), len([]rune(v[i]))))
			default:
				value = theme.Text(v[i])
			}
			cursor := Empty()
			if focus.IsFocused(FocusID(i)) {
				cursor = theme.AccentText("▏")
			}
			rows[i] = HBox(label, Text(" "), value, cursor)
		}
		return VBox(rows...)
	})

	reason, err := Run(context.Background(), root, WithConfig(cfg))
	if err != nil {
		log.Fatal(err)
	}
	if reason != ExitRequested || !submitted {
		fmt.Fprintln(os.Stderr, "cancelled")
		os.Exit(1)
	}
	fmt.Printf("name=%q email=%q token=%q\n", values[0], values[1], values[2])
}
