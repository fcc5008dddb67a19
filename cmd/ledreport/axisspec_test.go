package main

import (
	"testing"

	"github.com/HelderRocha/LEDs-analyser/src/dataset"
	"github.com/HelderRocha/LEDs-analyser/src/reduce"
)

func TestParseAxisSpec(t *testing.T) {
	cases := []struct {
		in   string
		want reduce.Selection
	}{
		{"temp", reduce.Selection{dataset.ColTemperature}},
		{"Temperature", reduce.Selection{dataset.ColTemperature}},
		{"time", reduce.Selection{dataset.ColTime}},
		{"position", reduce.Selection{dataset.ColPosition}},
		{"pos", reduce.Selection{dataset.ColPosition}},
		{"led1,row", reduce.Selection{0}},
		{"led1,col", reduce.Selection{1}},
		{"led4 , col", reduce.Selection{7}},
		{"led2-led4", reduce.Selection{2, 6}},
		{"LED1-LED2", reduce.Selection{0, 2}},
	}
	for _, c := range cases {
		got, err := parseAxisSpec(c.in)
		if err != nil {
			t.Fatalf("parseAxisSpec(%q): %v", c.in, err)
		}
		if len(got) != len(c.want) {
			t.Fatalf("parseAxisSpec(%q) = %v want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("parseAxisSpec(%q) = %v want %v", c.in, got, c.want)
			}
		}
	}
}

func TestParseAxisSpecErrors(t *testing.T) {
	for _, in := range []string{
		"", "nope", "led5,row", "led0,col", "led1,diag",
		"led1-led1", "led1-temp", "lamp1,row", "led1",
	} {
		if _, err := parseAxisSpec(in); err == nil {
			t.Fatalf("parseAxisSpec(%q) should fail", in)
		}
	}
}
