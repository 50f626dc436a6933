package signal

import (
	"fmt"
	"math"
)

// ScaleType selects the notes a Harmonizer snaps to.
type ScaleType int

const (
	// ScaleMajorTriad snaps to C, E and G.
	ScaleMajorTriad ScaleType = iota
	// ScaleMinorTriad snaps to C, D# and G.
	ScaleMinorTriad
	// ScaleMinorSeventh snaps to C, D#, G and A#.
	ScaleMinorSeventh
	// ScaleDorian snaps to D and F up to octave 3, D and A above.
	ScaleDorian
	// ScaleFifthThird snaps to C and G up to octave 3, C and D# above.
	ScaleFifthThird
)

// C0 is the frequency of C in octave 0 relative to A4 = 440 Hz.
var C0 = 440 * math.Pow(2, -4.75)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// justRatios are the just-intonation ratios of the 12 half steps above C.
var justRatios = [13]float64{1, 25.0 / 24, 9.0 / 8, 6.0 / 5, 5.0 / 4, 4.0 / 3, 45.0 / 32, 3.0 / 2, 8.0 / 5, 5.0 / 3, 9.0 / 5, 15.0 / 8, 2}

// Note is a harmonized pitch.
type Note struct {
	Frequency float64
	Name      string
	Octave    int
	HalfStep  int
}

// Harmonizer snaps frequencies onto a just-intonation scale.
type Harmonizer struct {
	scale ScaleType
}

// NewHarmonizer returns a Harmonizer for the given scale.
func NewHarmonizer(scale ScaleType) (*Harmonizer, error) {
	if scale < ScaleMajorTriad || scale > ScaleFifthThird {
		return nil, fmt.Errorf("harmonizer scale type must be in [%d,%d]: %d", ScaleMajorTriad, ScaleFifthThird, scale)
	}
	return &Harmonizer{scale: scale}, nil
}

// Scale returns the configured scale type.
func (h *Harmonizer) Scale() ScaleType { return h.scale }

// Snap returns the scale note nearest freq's equal-tempered pitch class.
func (h *Harmonizer) Snap(freq float64) Note {
	steps := int(math.Round(12 * math.Log2(freq/C0)))
	octave := steps / 12
	half := ((steps % 12) + 12) % 12
	half = h.limit(half, octave)

	return Note{
		Frequency: justRatios[half] * C0 * math.Pow(2, float64(octave)),
		Name:      fmt.Sprintf("%s%d", noteNames[half], octave),
		Octave:    octave,
		HalfStep:  half,
	}
}

func (h *Harmonizer) limit(half, octave int) int {
	switch h.scale {
	case ScaleMajorTriad:
		switch {
		case half <= 3:
			return 0
		case half <= 6:
			return 4
		default:
			return 7
		}
	case ScaleMinorTriad:
		switch {
		case half <= 2:
			return 0
		case half <= 6:
			return 3
		default:
			return 7
		}
	case ScaleMinorSeventh:
		switch {
		case half <= 2:
			return 0
		case half <= 6:
			return 3
		case half <= 9:
			return 7
		default:
			return 10
		}
	case ScaleDorian:
		if octave <= 3 {
			if half <= 4 {
				return 2
			}
			return 5
		}
		if half <= 8 {
			return 2
		}
		return 9
	default:
		if octave <= 3 {
			if half <= 6 {
				return 0
			}
			return 7
		}
		if half <= 2 {
			return 0
		}
		return 3
	}
}
