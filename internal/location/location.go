// internal/location/location.go
package location

import (
	"fmt"
	"strconv"
	"strings"
)

// Carrier geometry. These values are fixed by the robot layout.
const (
	NumLids        = 3
	NumPucks       = 3
	NumPuckSamples = 10
	NumPlates      = 8
	NumRowWells    = 24
	NumRows        = 8
	NumWells       = NumRows * NumRowWells
)

const (
	puckLetters = "ABC"
	rowLetters  = "ABCDEFGH"
)

// Kind tags which addressing family a Location belongs to.
type Kind int

const (
	KindNone Kind = iota
	KindPuck
	KindPlate
)

func (k Kind) String() string {
	switch k {
	case KindPuck:
		return "puck"
	case KindPlate:
		return "plate"
	default:
		return "none"
	}
}

// Tools maps carrier families to the robot tool numbers that handle them.
type Tools struct {
	Puck  int
	Plate int
}

// DefaultTools matches the tool numbering of the robot controller.
var DefaultTools = Tools{Puck: 2, Plate: 3}

// Location is one sample position in either addressing family.
// Zero in any component means "unset".
type Location struct {
	Kind Kind
	Tool int

	// puck family
	Lid    int
	Sample int

	// plate family
	Plate int
	Well  int
}

// Valid reports whether every component required by the family is non-zero.
func (l Location) Valid() bool {
	switch l.Kind {
	case KindPuck:
		return l.Tool != 0 && l.Lid != 0 && l.Sample != 0
	case KindPlate:
		return l.Tool != 0 && l.Plate != 0 && l.Well != 0
	default:
		return false
	}
}

// Port renders the location in port notation, or "" if it is not addressable.
func (l Location) Port() string {
	switch l.Kind {
	case KindPuck:
		return PinPort(l.Lid, l.Sample)
	case KindPlate:
		return PlatePort(l.Plate, l.Well)
	default:
		return ""
	}
}

func (l Location) String() string {
	switch l.Kind {
	case KindPuck:
		return fmt.Sprintf("puck(tool=%d lid=%d sample=%d)", l.Tool, l.Lid, l.Sample)
	case KindPlate:
		return fmt.Sprintf("plate(tool=%d plate=%d well=%d)", l.Tool, l.Plate, l.Well)
	default:
		return "none"
	}
}

// Parse converts a port string such as "L1C1" or "P2B1" into a Location.
//
// Strings shorter than 4 characters, with an unknown family prefix or with a
// carrier letter outside the alphabet yield the zero Location. Garbled
// numeric parts degrade to 0, so callers must check Valid before use.
func Parse(port string, tools Tools) Location {
	port = strings.TrimSpace(port)
	if len(port) < 4 {
		return Location{}
	}

	switch port[0] {
	case 'L':
		puck := strings.IndexByte(puckLetters, port[2])
		if puck < 0 {
			return Location{}
		}
		lid := inRange(zeroInt(port[1:2]), NumLids)
		pin := inRange(zeroInt(port[3:]), NumPuckSamples)
		return Location{
			Kind:   KindPuck,
			Tool:   tools.Puck,
			Lid:    lid,
			Sample: compose(puck, pin, NumPuckSamples),
		}

	case 'P':
		row := strings.IndexByte(rowLetters, port[2])
		if row < 0 {
			return Location{}
		}
		plate := inRange(zeroInt(port[1:2]), NumPlates)
		column := inRange(zeroInt(port[3:]), NumRowWells)
		return Location{
			Kind:  KindPlate,
			Tool:  tools.Plate,
			Plate: plate,
			Well:  compose(row, column, NumRowWells),
		}
	}

	return Location{}
}

// PinPort converts lid=1, sample=21 into "L1C1".
// Returns "" when lid or sample is zero or out of range.
func PinPort(lid, sample int) string {
	if lid <= 0 || lid > NumLids {
		return ""
	}
	puck, pin, ok := split(sample, NumPuckSamples, NumPucks)
	if !ok {
		return ""
	}
	return fmt.Sprintf("L%d%c%d", lid, puckLetters[puck], pin)
}

// PlatePort converts plate=1, well=21 into "P1A21".
// Returns "" when plate or well is zero or out of range.
func PlatePort(plate, well int) string {
	if plate <= 0 || plate > NumPlates {
		return ""
	}
	row, column, ok := split(well, NumRowWells, NumRows)
	if !ok {
		return ""
	}
	return fmt.Sprintf("P%d%c%d", plate, rowLetters[row], column)
}

// compose packs a carrier index and a 1-based position into a flat index.
// A zero position stays zero (unset).
func compose(index, pos, perCarrier int) int {
	if pos == 0 {
		return 0
	}
	return index*perCarrier + pos
}

// split is the inverse of compose.
func split(flat, perCarrier, carriers int) (index, pos int, ok bool) {
	if flat <= 0 || flat > perCarrier*carriers {
		return 0, 0, false
	}
	return (flat - 1) / perCarrier, (flat-1)%perCarrier + 1, true
}

func inRange(v, max int) int {
	if v < 1 || v > max {
		return 0
	}
	return v
}

// zeroInt parses a decimal integer, returning 0 for anything unparsable.
func zeroInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
