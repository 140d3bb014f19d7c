package editor

import "fmt"

// Highlight classifies one rendered character.
type Highlight uint8

const (
	HLNormal Highlight = iota
	HLNumber
	HLMatch // transient search match overlay
)

// ANSI foreground color codes per class.
var highlightColors = map[Highlight]int{
	HLNormal: 37,
	HLNumber: 31,
	HLMatch:  34,
}

// Color returns the SGR foreground code for h.
func (h Highlight) Color() int {
	if c, ok := highlightColors[h]; ok {
		return c
	}
	return highlightColors[HLNormal]
}

func (h Highlight) String() string {
	switch h {
	case HLNormal:
		return "normal"
	case HLNumber:
		return "number"
	case HLMatch:
		return "match"
	}
	return fmt.Sprintf("Highlight(%d)", uint8(h))
}

// classify tags every decimal digit in render as a number.
func classify(render []byte) []Highlight {
	hl := make([]Highlight, len(render))
	for i, c := range render {
		if c >= '0' && c <= '9' {
			hl[i] = HLNumber
		}
	}
	return hl
}

const (
	sgrDefaultFg = "\x1b[39m"
	sgrReverse   = "\x1b[7m"
	sgrReset     = "\x1b[m"
)

func sgrColor(code int) string {
	return fmt.Sprintf("\x1b[%dm", code)
}
