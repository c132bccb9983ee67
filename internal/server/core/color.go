package core

import "fmt"

type Color byte

const (
	ColorBlack Color = iota + 1
	ColorWhite
)

func (c Color) String() string {
	if c == ColorBlack {
		return "b"
	} else if c == ColorWhite {
		return "w"
	} else {
		return "-"
	}
}

// Name returns the long form used in terminal output
func (c Color) Name() string {
	switch c {
	case ColorBlack:
		return "Black"
	case ColorWhite:
		return "White"
	default:
		return "None"
	}
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// ParseColor accepts "b"/"w" and their long forms
func ParseColor(s string) (Color, error) {
	switch s {
	case "b", "B", "black", "Black":
		return ColorBlack, nil
	case "w", "W", "white", "White":
		return ColorWhite, nil
	default:
		return 0, fmt.Errorf("invalid color %q: must be 'b' or 'w'", s)
	}
}
