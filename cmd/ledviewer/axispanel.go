package main

import (
	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/HelderRocha/LEDs-analyser/src/reduce"
)

// axisPanel is one column of checkboxes picking what a plot axis reads:
// up to two LEDs, a row/col coordinate, or one of the scalar channels.
type axisPanel struct {
	box *fyne.Container

	leds      [4]*widget.Check
	row, col  *widget.Check
	temp      *widget.Check
	timeChk   *widget.Check
	pos       *widget.Check
	allChecks []*widget.Check

	onChange func()
}

func newAxisPanel(title string, onChange func()) *axisPanel {
	p := &axisPanel{onChange: onChange}
	for i := range p.leds {
		p.leds[i] = widget.NewCheck(ledNames[i], p.changed)
	}
	p.row = widget.NewCheck("Row", p.changed)
	p.col = widget.NewCheck("Col", p.changed)
	p.temp = widget.NewCheck("Temperature", p.changed)
	p.timeChk = widget.NewCheck("Time", p.changed)
	p.pos = widget.NewCheck("Position", p.changed)
	p.allChecks = []*widget.Check{
		p.leds[0], p.leds[1], p.leds[2], p.leds[3],
		p.row, p.col, p.temp, p.timeChk, p.pos,
	}

	p.box = container.NewVBox(
		widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		p.leds[0], p.leds[1], p.leds[2], p.leds[3],
		widget.NewSeparator(),
		p.row, p.col,
		widget.NewSeparator(),
		p.temp, p.timeChk, p.pos,
	)
	return p
}

var ledNames = [4]string{"LED 1", "LED 2", "LED 3", "LED 4"}

func (p *axisPanel) changed(bool) {
	p.updateEnabled()
	if p.onChange != nil {
		p.onChange()
	}
}

// Choice snapshots the checkbox state.
func (p *axisPanel) Choice() reduce.Choice {
	var c reduce.Choice
	for i, chk := range p.leds {
		c.Leds[i] = chk.Checked
	}
	c.Row = p.row.Checked
	c.Col = p.col.Checked
	c.Temperature = p.temp.Checked
	c.Time = p.timeChk.Checked
	c.Position = p.pos.Checked
	return c
}

// updateEnabled greys out boxes that can no longer lead to a valid
// pick: a scalar channel excludes everything else, two LEDs exclude the
// coordinates and further LEDs, one coordinate excludes its sibling.
func (p *axisPanel) updateEnabled() {
	c := p.Choice()
	leds := 0
	for _, set := range c.Leds {
		if set {
			leds++
		}
	}
	other := c.Temperature || c.Time || c.Position
	coord := c.Row || c.Col

	for i, chk := range p.leds {
		setEnabled(chk, !other && (c.Leds[i] || leds < 2) && !(coord && leds == 1 && !c.Leds[i]))
	}
	setEnabled(p.row, !other && leds == 1 && !c.Col)
	setEnabled(p.col, !other && leds == 1 && !c.Row)
	for _, chk := range []*widget.Check{p.temp, p.timeChk, p.pos} {
		setEnabled(chk, (!other || chk.Checked) && leds == 0 && !coord)
	}
}

func setEnabled(c *widget.Check, enabled bool) {
	if enabled {
		c.Enable()
	} else {
		c.Disable()
	}
}

// Clear unchecks every box without firing per-box callbacks.
func (p *axisPanel) Clear() {
	for _, chk := range p.allChecks {
		chk.Checked = false
		chk.Enable()
		chk.Refresh()
	}
	if p.onChange != nil {
		p.onChange()
	}
}
