package console

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/louisbranch/dicetray/internal/tray"
	"golang.org/x/text/width"
)

// Render draws the stats header, the dice, the add buttons and the controls.
func (c *Console) Render() {
	writeView(c.out, c.view())
}

func (c *Console) renderOptions() {
	c.println("console.options.title")
	for _, entry := range c.options.Entries() {
		c.println("console.options.entry", entry.Name, entry.Value)
	}
}

// view is the text of one frame, before layout.
type view struct {
	width      int
	stats      string
	dice       []string
	empty      string
	addButtons []string
	addAlign   tray.Alignment
	controls   []string
	ctrlAlign  tray.Alignment
}

func (c *Console) view() view {
	stats := c.tray.Stats()
	v := view{
		width:     c.width,
		stats:     c.printer.Sprintf("console.stats", stats.Sum, stats.Max, stats.Min),
		empty:     c.printer.Sprintf("console.empty"),
		addAlign:  c.options.AlignAddButtons,
		ctrlAlign: c.options.AlignControls,
	}
	for i, d := range c.tray.Dice() {
		v.dice = append(v.dice, c.printer.Sprintf("console.die", i+1, d.Result(), d.Sides()))
	}
	for _, sides := range c.options.AddButtons() {
		v.addButtons = append(v.addButtons, fmt.Sprintf("+d%d", sides))
	}
	controls := []string{
		c.printer.Sprintf("console.control.roll_all"),
		c.printer.Sprintf("console.control.clear"),
		c.printer.Sprintf("console.control.options"),
	}
	v.controls = tray.Arrange(controls, c.options.ReverseControls)
	return v
}

func writeView(w io.Writer, v view) {
	var b strings.Builder
	b.WriteString(center(v.stats, v.width))
	b.WriteByte('\n')
	if len(v.dice) == 0 {
		b.WriteString(v.empty)
		b.WriteByte('\n')
	}
	for _, line := range v.dice {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat("-", v.width))
	b.WriteByte('\n')
	b.WriteString(justify(buttonBar(v.addButtons), v.width, v.addAlign))
	b.WriteByte('\n')
	b.WriteString(justify(buttonBar(v.controls), v.width, v.ctrlAlign))
	b.WriteByte('\n')
	io.WriteString(w, b.String())
}

func buttonBar(labels []string) string {
	buttons := make([]string, len(labels))
	for i, label := range labels {
		buttons[i] = "[" + label + "]"
	}
	return strings.Join(buttons, " ")
}

// justify pads text on the left when aligned right. Text wider than the
// screen is returned unchanged.
func justify(text string, columns int, align tray.Alignment) string {
	if align != tray.AlignRight {
		return text
	}
	pad := columns - displayWidth(text)
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}

func center(text string, columns int) string {
	pad := (columns - displayWidth(text)) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}

// displayWidth counts terminal columns, treating East Asian wide runes as two.
func displayWidth(text string) int {
	columns := 0
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		text = text[size:]
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			columns += 2
		default:
			columns++
		}
	}
	return columns
}
