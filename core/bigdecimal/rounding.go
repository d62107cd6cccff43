package bigdecimal

import (
	"fmt"
	"strings"
)

// RoundingMode selects how discarded digits affect the retained ones.
type RoundingMode int

const (
	// Up rounds away from zero.
	Up RoundingMode = iota
	// Down rounds towards zero (truncation).
	Down
	// Ceiling rounds towards positive infinity.
	Ceiling
	// Floor rounds towards negative infinity.
	Floor
	// HalfUp rounds to the nearest neighbour, ties away from zero.
	HalfUp
	// HalfDown rounds to the nearest neighbour, ties towards zero.
	HalfDown
	// HalfEven rounds to the nearest neighbour, ties to the even neighbour.
	HalfEven
	// Unnecessary asserts the value is already exact at the requested precision.
	Unnecessary
)

var modeNames = map[RoundingMode]string{
	Up:          "UP",
	Down:        "DOWN",
	Ceiling:     "CEILING",
	Floor:       "FLOOR",
	HalfUp:      "HALF_UP",
	HalfDown:    "HALF_DOWN",
	HalfEven:    "HALF_EVEN",
	Unnecessary: "UNNECESSARY",
}

func (m RoundingMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("RoundingMode(%d)", int(m))
}

// ParseRoundingMode accepts the upper-case mode names (HALF_EVEN, DOWN, ...).
func ParseRoundingMode(s string) (RoundingMode, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == want {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown rounding mode %q", s)
}

// roundTo reduces n to precision fractional digits. sticky marks non-zero
// digits beyond n.scale that were already discarded (division guard).
func roundTo(n number, precision int, mode RoundingMode, sticky bool) (number, error) {
	if n.scale <= precision {
		if sticky {
			// Only reachable when a caller asks for more digits than were computed.
			return number{}, fmt.Errorf("%w: precision %d exceeds computed scale %d", ErrInvalidPrecision, precision, n.scale)
		}
		return number{neg: n.neg, coef: padRight(n.coef, precision-n.scale), scale: precision}, nil
	}

	drop := n.scale - precision
	coef := padLeft(n.coef, drop+1)
	kept := append([]byte(nil), coef[:len(coef)-drop]...)
	dropped := coef[len(coef)-drop:]

	exact := isZero(dropped) && !sticky
	if exact {
		return number{neg: n.neg, coef: trimLeft(kept), scale: precision}, nil
	}
	if mode == Unnecessary {
		return number{}, fmt.Errorf("%w: %s at precision %d", ErrRoundingNecessary, n.String(), precision)
	}

	if roundsAway(mode, n.neg, kept[len(kept)-1], dropped, sticky) {
		kept = increment(kept)
	}
	return number{neg: n.neg, coef: trimLeft(kept), scale: precision}, nil
}

// roundsAway decides whether the retained magnitude is incremented. The half
// comparison looks at the first discarded digit and whether anything non-zero
// follows it, never at a floating point fraction.
func roundsAway(mode RoundingMode, neg bool, lastKept byte, dropped []byte, sticky bool) bool {
	switch mode {
	case Up:
		return true
	case Down:
		return false
	case Ceiling:
		return !neg
	case Floor:
		return neg
	}

	first := dropped[0]
	restNonZero := sticky || !isZero(dropped[1:])
	switch {
	case first > 5:
		return true
	case first < 5:
		return false
	case restNonZero:
		return true
	}

	switch mode {
	case HalfUp:
		return true
	case HalfDown:
		return false
	default: // HalfEven
		return lastKept%2 == 1
	}
}
