package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/HelderRocha/LEDs-analyser/src/reduce"
)

// parseAxisSpec turns a command-line axis description into a column
// selection. The grammar mirrors the viewer's checkboxes:
//
//	temp | time | position       scalar channels
//	led<i>,row | led<i>,col      one LED coordinate
//	led<i>-led<j>                distance between two LEDs
func parseAxisSpec(s string) (reduce.Selection, error) {
	var c reduce.Choice
	switch spec := strings.ToLower(strings.TrimSpace(s)); spec {
	case "":
		return nil, fmt.Errorf("empty axis spec")
	case "temp", "temperature":
		c.Temperature = true
	case "time":
		c.Time = true
	case "position", "pos":
		c.Position = true
	default:
		if i, j, ok := splitPair(spec, "-"); ok {
			a, err := ledIndex(i)
			if err != nil {
				return nil, err
			}
			b, err := ledIndex(j)
			if err != nil {
				return nil, err
			}
			if a == b {
				return nil, fmt.Errorf("axis %q names the same LED twice", s)
			}
			c.Leds[a] = true
			c.Leds[b] = true
		} else if led, coord, ok := splitPair(spec, ","); ok {
			a, err := ledIndex(led)
			if err != nil {
				return nil, err
			}
			c.Leds[a] = true
			switch coord {
			case "row":
				c.Row = true
			case "col":
				c.Col = true
			default:
				return nil, fmt.Errorf("axis %q: coordinate must be row or col", s)
			}
		} else {
			return nil, fmt.Errorf("cannot parse axis %q", s)
		}
	}
	sel, err := c.Selection()
	if err != nil {
		return nil, fmt.Errorf("axis %q: %w", s, err)
	}
	return sel, nil
}

func splitPair(s, sep string) (string, string, bool) {
	parts := strings.SplitN(s, sep, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// ledIndex parses "led1".."led4" to the 0-based LED number.
func ledIndex(s string) (int, error) {
	num, ok := strings.CutPrefix(s, "led")
	if !ok {
		return 0, fmt.Errorf("%q is not a led reference", s)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 || n > 4 {
		return 0, fmt.Errorf("led number in %q must be 1..4", s)
	}
	return n - 1, nil
}
