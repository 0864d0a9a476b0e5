package model

import (
	"math"
	"strconv"
)

// Ratio is a derived rate that may be undefined because its denominator was zero.
type Ratio struct {
	Value   float64
	Defined bool
}

// Undefined is the sentinel for a ratio with a zero denominator.
var Undefined = Ratio{}

// Div returns num/den, or Undefined when den is zero.
func Div(num, den float64) Ratio {
	if den == 0 {
		return Undefined
	}
	return Ratio{Value: num / den, Defined: true}
}

// Scaled returns the ratio multiplied by k, keeping undefined as undefined.
func (r Ratio) Scaled(k float64) Ratio {
	if !r.Defined {
		return r
	}
	return Ratio{Value: r.Value * k, Defined: true}
}

// Round returns the ratio rounded to the given number of decimal places.
func (r Ratio) Round(places int) Ratio {
	if !r.Defined {
		return r
	}
	p := math.Pow(10, float64(places))
	return Ratio{Value: math.Round(r.Value*p) / p, Defined: true}
}

// Format renders the value with the given precision, or "—" when undefined.
func (r Ratio) Format(places int) string {
	if !r.Defined {
		return "—"
	}
	return strconv.FormatFloat(r.Value, 'f', places, 64)
}

func (r Ratio) String() string { return r.Format(2) }

// MarshalJSON encodes undefined ratios as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, math.Round(r.Value*100)/100, 'f', -1, 64), nil
}

// Less orders defined values before undefined ones.
func (r Ratio) Less(o Ratio) bool {
	if r.Defined != o.Defined {
		return r.Defined
	}
	return r.Value < o.Value
}
