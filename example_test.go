package inline_test

import (
	"bytes"
	"fmt"
	"strconv"

	. "github.com/kungfusheep/inline"
)

// Bordered box.
// A box with a border reserves one cell on each side for it.
func ExampleBox() {
	r := NewRenderer(NewRuntime(), NewInlineWriter(&bytes.Buffer{}), 40, 10)
	lines := r.Frame(Box(BoxProps{
		Layout: LayoutStyle{Width: Cells(12)},
		Border: BorderRounded,
	}, Text("hello")))
	for _, l := range lines {
		fmt.Println(l)
	}
	// Output:
	// ╭──────────╮
	// │hello     │
	// ╰──────────╯
}

// Rows and columns.
// Grow shares the free space along the main axis.
func ExampleHBox() {
	r := NewRenderer(NewRuntime(), NewInlineWriter(&bytes.Buffer{}), 12, 10)
	lines := r.Frame(HBox(
		TextWith(TextProps{Content: "left", Layout: LayoutStyle{Grow: 1}}),
		Text("right"),
	))
	fmt.Printf("%q\n", lines[0])
	// Output:
	// "left   right"
}

// Component state.
// State returns the same signal on every render; writing it schedules one.
func ExampleState() {
	var out bytes.Buffer
	r := NewRenderer(NewRuntime(), NewInlineWriter(&out), 40, 10)

	var count *Signal[int]
	root := Component("Counter", func(h *Hooks) Element {
		count = State(h, 0)
		return Text("Count: " + strconv.Itoa(count.Get()))
	})

	_ = r.Render(root)
	count.Set(1)
	out.Reset()
	_ = r.Render(root)
	fmt.Printf("%q\n", out.String())
	// Output:
	// "\x1b[1A\r\x1b[KCount: 1\r\n"
}

// Static output.
// Printed lines scroll up with the terminal and are never redrawn.
func ExampleInlineWriter_Print() {
	var out bytes.Buffer
	w := NewInlineWriter(&out)
	_ = w.Render([]string{"progress 50%"})
	_ = w.Print("step 1 done")
	_ = w.Render([]string{"progress 100%"})
	fmt.Printf("%q\n", out.String())
	// Output:
	// "\rprogress 50%\r\n\x1b[1A\r\x1b[Jstep 1 done\r\n\rprogress 100%\r\n"
}
