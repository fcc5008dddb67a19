package reduce

import (
	"testing"

	"github.com/HelderRocha/LEDs-analyser/src/dataset"
)

func choiceWithLeds(leds ...int) Choice {
	var c Choice
	for _, i := range leds {
		c.Leds[i-1] = true
	}
	return c
}

func TestChoiceKind(t *testing.T) {
	cases := []struct {
		name string
		c    Choice
		want ChoiceKind
	}{
		{"empty", Choice{}, ChoiceInvalid},
		{"lone led", choiceWithLeds(2), ChoiceSingleLed},
		{"led pair", choiceWithLeds(1, 3), ChoiceLedPair},
		{"led row", func() Choice { c := choiceWithLeds(4); c.Row = true; return c }(), ChoiceCoordinate},
		{"led col", func() Choice { c := choiceWithLeds(1); c.Col = true; return c }(), ChoiceCoordinate},
		{"temperature", Choice{Temperature: true}, ChoiceOther},
		{"time", Choice{Time: true}, ChoiceOther},
		{"position", Choice{Position: true}, ChoiceOther},
		{"three leds", choiceWithLeds(1, 2, 3), ChoiceInvalid},
		{"pair with coord", func() Choice { c := choiceWithLeds(1, 2); c.Row = true; return c }(), ChoiceInvalid},
		{"led and time", func() Choice { c := choiceWithLeds(1); c.Time = true; return c }(), ChoiceInvalid},
		{"both coords", func() Choice { c := choiceWithLeds(1); c.Row, c.Col = true, true; return c }(), ChoiceInvalid},
		{"two others", Choice{Temperature: true, Time: true}, ChoiceInvalid},
		{"coord alone", Choice{Row: true}, ChoiceInvalid},
	}
	for _, c := range cases {
		if got := c.c.Kind(); got != c.want {
			t.Fatalf("%s: kind = %v want %v", c.name, got, c.want)
		}
	}
}

func TestChoiceSelection(t *testing.T) {
	cases := []struct {
		name string
		c    Choice
		want Selection
	}{
		{"led1 row", func() Choice { c := choiceWithLeds(1); c.Row = true; return c }(), Selection{0}},
		{"led1 col", func() Choice { c := choiceWithLeds(1); c.Col = true; return c }(), Selection{1}},
		{"led3 row", func() Choice { c := choiceWithLeds(3); c.Row = true; return c }(), Selection{4}},
		{"led4 col", func() Choice { c := choiceWithLeds(4); c.Col = true; return c }(), Selection{7}},
		{"pair 2-4", choiceWithLeds(2, 4), Selection{2, 6}},
		{"temperature", Choice{Temperature: true}, Selection{dataset.ColTemperature}},
		{"time", Choice{Time: true}, Selection{dataset.ColTime}},
		{"position", Choice{Position: true}, Selection{dataset.ColPosition}},
	}
	for _, c := range cases {
		sel, err := c.c.Selection()
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if len(sel) != len(c.want) {
			t.Fatalf("%s: selection %v want %v", c.name, sel, c.want)
		}
		for i := range sel {
			if sel[i] != c.want[i] {
				t.Fatalf("%s: selection %v want %v", c.name, sel, c.want)
			}
		}
	}
}

func TestChoiceSelectionInvalid(t *testing.T) {
	if _, err := (Choice{}).Selection(); err == nil {
		t.Fatalf("empty choice should not resolve")
	}
	if _, err := choiceWithLeds(1, 2, 3).Selection(); err == nil {
		t.Fatalf("three leds should not resolve")
	}
}

func TestSelectionPredicates(t *testing.T) {
	if !(Selection{dataset.ColPosition}).IsPosition() {
		t.Fatalf("position sentinel not detected")
	}
	if (Selection{dataset.ColTime}).IsPosition() {
		t.Fatalf("time mistaken for position")
	}
	if !(Selection{0, 2}).IsDistance() {
		t.Fatalf("pair not detected as distance")
	}
	if (Selection{0}).IsDistance() {
		t.Fatalf("single index mistaken for distance")
	}
}
