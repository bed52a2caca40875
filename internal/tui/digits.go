// Package tui provides the Bubble Tea countdown interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const glyphRows = 5

// glyphs is a block font for the clock face. Every row of a glyph has the
// same cell width so horizontal joins stay aligned.
var glyphs = map[rune][]string{
	'0': {
		"█████",
		"█   █",
		"█   █",
		"█   █",
		"█████",
	},
	'1': {
		"  █  ",
		" ██  ",
		"  █  ",
		"  █  ",
		" ███ ",
	},
	'2': {
		"█████",
		"    █",
		"█████",
		"█    ",
		"█████",
	},
	'3': {
		"█████",
		"    █",
		" ████",
		"    █",
		"█████",
	},
	'4': {
		"█   █",
		"█   █",
		"█████",
		"    █",
		"    █",
	},
	'5': {
		"█████",
		"█    ",
		"█████",
		"    █",
		"█████",
	},
	'6': {
		"█████",
		"█    ",
		"█████",
		"█   █",
		"█████",
	},
	'7': {
		"█████",
		"    █",
		"   █ ",
		"  █  ",
		"  █  ",
	},
	'8': {
		"█████",
		"█   █",
		"█████",
		"█   █",
		"█████",
	},
	'9': {
		"█████",
		"█   █",
		"█████",
		"    █",
		"█████",
	},
	':': {
		"   ",
		" █ ",
		"   ",
		" █ ",
		"   ",
	},
}

// bigClock renders a clock string in the block font and returns the text with
// its cell width. ok is false when the string contains a rune outside the
// font, in which case callers fall back to plain text.
func bigClock(clock string) (text string, width int, ok bool) {
	rows := make([]strings.Builder, glyphRows)
	for i, r := range clock {
		glyph, found := glyphs[r]
		if !found {
			return "", 0, false
		}
		for row := range rows {
			if i > 0 {
				rows[row].WriteString("  ")
			}
			rows[row].WriteString(glyph[row])
		}
	}
	lines := make([]string, glyphRows)
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return strings.Join(lines, "\n"), runewidth.StringWidth(lines[0]), true
}
