package units

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// fractionTolerance is how close a remainder must be to a kitchen fraction
// before it snaps to the glyph.
const fractionTolerance = 0.05

type fraction struct {
	value float64
	glyph string
}

var fractions = []fraction{
	{1.0 / 8, "⅛"},
	{1.0 / 4, "¼"},
	{1.0 / 3, "⅓"},
	{1.0 / 2, "½"},
	{2.0 / 3, "⅔"},
	{3.0 / 4, "¾"},
}

// Amount is a display quantity: either a plain number or a whole part
// plus a fraction glyph such as "2 ½".
type Amount struct {
	Value    float64
	Whole    int
	Fraction string
	Negative bool
}

// Number wraps a plain value without rounding.
func Number(v float64) Amount {
	return Amount{Value: v}
}

// IsFraction reports whether the amount renders with a glyph.
func (a Amount) IsFraction() bool {
	return a.Fraction != ""
}

func (a Amount) String() string {
	if !a.IsFraction() {
		return strconv.FormatFloat(a.Value, 'f', -1, 64)
	}
	sign := ""
	if a.Negative {
		sign = "-"
	}
	if a.Whole == 0 {
		return sign + a.Fraction
	}
	return sign + strconv.Itoa(a.Whole) + " " + a.Fraction
}

// MarshalJSON writes plain amounts as numbers and fractions as strings.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.IsFraction() {
		return json.Marshal(a.Value)
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both forms written by MarshalJSON.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*a = Number(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("amount must be a number or a fraction string: %w", err)
	}
	parsed, ok := parseAmount(s)
	if !ok {
		return fmt.Errorf("invalid amount %q", s)
	}
	*a = parsed
	return nil
}

func parseAmount(s string) (Amount, bool) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, glyph := "", s
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		whole, glyph = s[:i], s[i+1:]
	}
	for _, f := range fractions {
		if f.glyph != glyph {
			continue
		}
		w := 0
		if whole != "" {
			n, err := strconv.Atoi(whole)
			if err != nil || n < 0 {
				return Amount{}, false
			}
			w = n
		}
		v := float64(w) + f.value
		if neg {
			v = -v
		}
		return Amount{Value: v, Whole: w, Fraction: f.glyph, Negative: neg}, true
	}
	return Amount{}, false
}

// SmartRound renders x in cooking-friendly form. Values under ⅛ keep two
// decimals, remainders within 0.05 of a kitchen fraction snap to the nearest glyph
// and everything else is rounded to two decimals.
func SmartRound(x float64) Amount {
	if x == 0 {
		return Amount{}
	}
	abs := math.Abs(x)
	if abs < 1.0/8 {
		return Amount{Value: round2(x)}
	}

	whole := math.Floor(abs)
	remainder := abs - whole
	best, bestDiff := -1, fractionTolerance
	for i, f := range fractions {
		if d := math.Abs(remainder - f.value); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	if best < 0 {
		return Amount{Value: round2(x)}
	}

	f := fractions[best]
	v := whole + f.value
	if x < 0 {
		v = -v
	}
	return Amount{Value: v, Whole: int(whole), Fraction: f.glyph, Negative: x < 0}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
