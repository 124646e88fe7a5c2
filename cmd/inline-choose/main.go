// inline fuzzy picker: like gum filter / fzf
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	. "github.com/kungfusheep/inline"
	"github.com/sahilm/fuzzy"
)

const visible = 8

// highlight splits s into runs, styling the runes at matched indexes.
func highlight(s string, matched []int, base, hit Style) Element {
	isHit := make(map[int]bool, len(matched))
	for _, i := range matched {
		isHit[i] = true
	}
	var runs []Element
	start, on := 0, false
	for i := range s {
		if h := isHit[i]; h != on {
			if i > start {
				runs = append(runs, StyledText(s[start:i], pick(on, hit, base)))
			}
			start, on = i, h
		}
	}
	if start < len(s) {
		runs = append(runs, StyledText(s[start:], pick(on, hit, base)))
	}
	return HBox(runs...)
}

func pick(on bool, a, b Style) Style {
	if on {
		return a
	}
	return b
}

func readOptions() []string {
	if IsTerminal(os.Stdin) {
		return []string{"production", "staging", "development", "local", "preview", "sandbox"}
	}
	var out []string
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func main() {
	options := readOptions()

	path, err := DefaultConfigPath()
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		log.Fatal(err)
	}
	cfg.QuitKeys = append(cfg.QuitKeys, "esc")
	cfg.TickMillis = 0

	theme := ThemeDark
	hit := theme.Accent.Bold()
	var chosen string

	root := Component("Choose", func(h *Hooks) Element {
		query := State(h, "")
		cursor := State(h, 0)

		results := func() fuzzy.Matches {
			if query.Get() == "" {
				all := make(fuzzy.Matches, len(options))
				for i, o := range options {
					all[i] = fuzzy.Match{Str: o, Index: i}
				}
				return all
			}
			return fuzzy.Find(query.Get(), options)
		}

		h.Input(func(k Key) {
			n := len(results())
			switch k.Type {
			case KeyUp:
				cursor.Update(func(c int) int { return max(c-1, 0) })
			case KeyDown:
				cursor.Update(func(c int) int { return min(c+1, max(n-1, 0)) })
			case KeyBackspace:
				q := []rune(query.Get())
				if len(q) > 0 {
					query.Set(string(q[:len(q)-1]))
					cursor.Set(0)
				}
			case KeyEnter:
				if m := results(); len(m) > 0 {
					chosen = m[min(cursor.Get(), len(m)-1)].Str
				}
				h.Exit()
			default:
				if r, ok := k.Rune(); ok {
					query.Set(query.Get() + string(r))
					cursor.Set(0)
				}
			}
		})

		matches := results()
		rows := []Element{
			HBox(StyledText("> ", theme.Accent), theme.Text(query.Get())),
		}
		for i, m := range matches {
			if i == visible {
				rows = append(rows, theme.MutedText(fmt.Sprintf("  … %d more", len(matches)-visible)))
				break
			}
			marker := theme.MutedText("  ")
			if i == cursor.Get() {
				marker = StyledText("▸ ", theme.Accent)
			}
			rows = append(rows, HBox(marker, highlight(m.Str, m.MatchedIndexes, theme.Base, hit)))
		}
		if len(matches) == 0 {
			rows = append(rows, theme.ErrorText("  no matches"))
		}
		return VBox(rows...)
	})

	opts := []Option{WithConfig(cfg)}
	if !IsTerminal(os.Stdin) {
		// options came from a pipe, read keys from the controlling terminal
		tty, err := os.Open("/dev/tty")
		if err != nil {
			log.Fatal(err)
		}
		defer tty.Close()
		opts = append(opts, WithSource(NewTerminalSource(tty, os.Stdout)))
	}

	reason, err := Run(context.Background(), root, opts...)
	if err != nil {
		log.Fatal(err)
	}
	if reason == ExitRequested && chosen != "" {
		fmt.Println(chosen)
	}
}
