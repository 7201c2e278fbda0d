package args

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxRangeSize bounds how many members a hyphenated range may expand to.
const MaxRangeSize = 1 << 20

// ErrInvalidRange is returned for a range whose start exceeds its end, or
// that would expand past MaxRangeSize.
var ErrInvalidRange = errors.New("invalid range")

var (
	integerPattern = regexp.MustCompile(`^\d+$`)
	listPattern    = regexp.MustCompile(`^\d+(,\d+)+$`)
	rangePattern   = regexp.MustCompile(`^(\d+)-(\d+)$`)
)

// Classify turns one whitespace-free token into a Value. Integers too large
// for int fall back to String so that classification stays total.
func Classify(token string) (Value, error) {
	switch {
	case integerPattern.MatchString(token):
		n, err := strconv.Atoi(token)
		if err != nil {
			return String(token), nil
		}
		return Integer(n), nil

	case listPattern.MatchString(token):
		parts := strings.Split(token, ",")
		set := make(IntegerSet, 0, len(parts))
		for _, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return String(token), nil
			}
			set = append(set, n)
		}
		return set, nil

	case rangePattern.MatchString(token):
		m := rangePattern.FindStringSubmatch(token)
		lo, errLo := strconv.Atoi(m[1])
		hi, errHi := strconv.Atoi(m[2])
		if errLo != nil || errHi != nil {
			return String(token), nil
		}
		if lo > hi {
			return nil, fmt.Errorf("%w %q: start %d is greater than end %d", ErrInvalidRange, token, lo, hi)
		}
		if hi-lo >= MaxRangeSize {
			return nil, fmt.Errorf("%w %q: more than %d members", ErrInvalidRange, token, MaxRangeSize)
		}
		set := make(IntegerSet, 0, hi-lo+1)
		// Count by offset; hi may be math.MaxInt.
		for i := 0; i <= hi-lo; i++ {
			set = append(set, lo+i)
		}
		return set, nil
	}

	return String(token), nil
}

// ParseAll classifies every token in order. The first invalid range aborts.
func ParseAll(tokens []string) (List, error) {
	list := make(List, 0, len(tokens))
	for _, tok := range tokens {
		v, err := Classify(tok)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, nil
}
