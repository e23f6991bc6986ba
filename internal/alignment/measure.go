package alignment

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// MeasureFunc reports the rendered length of s.
type MeasureFunc func(s string) int

// MeasureRunes counts one unit per code point.
func MeasureRunes(s string) int {
	return utf8.RuneCountInString(s)
}

// MeasureDisplay counts terminal cells, so wide CJK characters take two.
func MeasureDisplay(s string) int {
	return runewidth.StringWidth(s)
}

// MeasureByName maps a configuration value to a MeasureFunc.
// Unknown names fall back to MeasureRunes.
func MeasureByName(name string) MeasureFunc {
	switch name {
	case "display", "cells":
		return MeasureDisplay
	default:
		return MeasureRunes
	}
}
