package synth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownNote is returned by ParseNoteName for a name not in the note
// table.
var ErrUnknownNote = errors.New("synth: unknown note name")

// NoteName is the position of a note within the octave, starting at C.
type NoteName int

// List of valid NoteName values. Flats are aliases for the sharp of the
// note below.
const (
	C NoteName = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B

	DFlat = CSharp
	EFlat = DSharp
	GFlat = FSharp
	AFlat = GSharp
	BFlat = ASharp
)

var noteNames = map[string]NoteName{
	"C": C, "C#": CSharp, "Db": DFlat,
	"D": D, "D#": DSharp, "Eb": EFlat,
	"E": E,
	"F": F, "F#": FSharp, "Gb": GFlat,
	"G": G, "G#": GSharp, "Ab": AFlat,
	"A": A, "A#": ASharp, "Bb": BFlat,
	"B": B,
}

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// ParseNoteName returns the NoteName for a name such as "C", "F#" or "Bb".
func ParseNoteName(s string) (NoteName, error) {
	n, ok := noteNames[strings.TrimSpace(s)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNote, s)
	}
	return n, nil
}

func (n NoteName) String() string {
	return sharpNames[floorMod(int(n), 12)]
}

// Note is either a Semitone or a Named note. Both resolve to an absolute
// number of semitones above C0.
type Note interface {
	semitone() int
}

// Semitone is a note given as a number of semitones above C0.
type Semitone int

func (s Semitone) semitone() int {
	return int(s)
}

func (s Semitone) String() string {
	return fmt.Sprintf("%d", int(s))
}

// Named is a note given by name and octave.
type Named struct {
	Name   NoteName
	Octave int
}

func (n Named) semitone() int {
	return int(n.Name) + 12*n.Octave
}

func (n Named) String() string {
	return fmt.Sprintf("%s%d", n.Name, n.Octave)
}

// chromatic scale starting on B
var noteMantissas = [12]uint16{1001, 887, 780, 679, 583, 493, 408, 327, 252, 180, 112, 49}

// PeriodFor returns the value of the period register that plays n shifted by
// the given number of octaves.
//
// The period is a 3-bit octave exponent above a 10-bit mantissa. Octaves
// outside the range of the exponent are clamped. In the top two octaves the
// low bits of the mantissa are cleared so that the effective period is a
// whole number.
func PeriodFor(n Note, octave int) uint16 {
	total := n.semitone() + 12*octave + 1

	oct := floorDiv(total, 12)
	idx := floorMod(total, 12)
	oct = max(0, min(7, oct))

	mantissa := noteMantissas[idx]
	if oct >= 6 {
		mantissa &^= (1 << (oct - 5)) - 1
	}

	return mantissa | uint16(7-oct)<<10
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
