// Package measurement holds unit-tagged readings as reported by the NWS API.
//
// A Value pairs a number with its unit code and optional bounds and quality
// control flag. Comparison and arithmetic are only defined between values of
// the same Kind; mixing kinds returns a *TypeMismatchError. Unit codes are
// carried as-is and never converted.
package measurement

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrTypeMismatch is matched by every *TypeMismatchError.
var ErrTypeMismatch = errors.New("incompatible unit types")

// TypeMismatchError is returned when two values of different kinds are
// compared or combined.
type TypeMismatchError struct {
	Op    string
	Left  Kind
	Right Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: incompatible unit types %s and %s", e.Op, e.Left, e.Right)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// Value is an immutable reading. The zero Value is a Generic 0 with no unit.
type Value struct {
	kind           Kind
	unitCode       string
	value          float64
	maxValue       float64
	hasMax         bool
	minValue       float64
	hasMin         bool
	qualityControl string
}

// Option sets one of the optional fields of a Value.
type Option func(*Value)

// WithMax sets the maximum recorded over the reporting period.
func WithMax(v float64) Option {
	return func(m *Value) {
		m.maxValue = v
		m.hasMax = true
	}
}

// WithMin sets the minimum recorded over the reporting period.
func WithMin(v float64) Option {
	return func(m *Value) {
		m.minValue = v
		m.hasMin = true
	}
}

// WithQualityControl sets the QC flag (e.g. "V" for verified).
func WithQualityControl(qc string) Option {
	return func(m *Value) {
		m.qualityControl = qc
	}
}

// New builds a Value of the given kind. It never fails and does not
// validate the number.
func New(kind Kind, unitCode string, value float64, opts ...Option) Value {
	v := Value{
		kind:     kind,
		unitCode: unitCode,
		value:    value,
	}
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

// FromCode builds a Value whose kind is derived from unitCode.
func FromCode(unitCode string, value float64, opts ...Option) Value {
	return New(KindForCode(unitCode), unitCode, value, opts...)
}

// Kind returns the unit kind the value was tagged with.
func (v Value) Kind() Kind { return v.kind }

// UnitCode returns the unit code exactly as reported.
func (v Value) UnitCode() string { return v.unitCode }

// Value returns the reading. It is the same as Float.
func (v Value) Value() float64 { return v.value }

// QualityControl returns the QC flag, or "" when none was reported.
func (v Value) QualityControl() string { return v.qualityControl }

// Max returns the maximum value and whether it was reported.
func (v Value) Max() (float64, bool) { return v.maxValue, v.hasMax }

// Min returns the minimum value and whether it was reported.
func (v Value) Min() (float64, bool) { return v.minValue, v.hasMin }

// Float returns the reading as a float64.
func (v Value) Float() float64 {
	return v.value
}

// Int returns the reading rounded to the nearest integer, ties to even.
// Readings outside the int range saturate at math.MaxInt or math.MinInt,
// and NaN yields 0.
func (v Value) Int() int {
	r := math.RoundToEven(v.value)
	switch {
	case math.IsNaN(r):
		return 0
	case r >= math.MaxInt:
		return math.MaxInt
	case r <= math.MinInt:
		return math.MinInt
	}
	return int(r)
}

// String renders the value with its unit display name, e.g. "21.5 degrees Celsius".
func (v Value) String() string {
	display := v.kind.DisplayName()
	if display == "" {
		return formatFloat(v.value)
	}
	return formatFloat(v.value) + " " + display
}

// Raw renders every field, for debugging.
func (v Value) Raw() string {
	return fmt.Sprintf("%s(%s, %s, %s, %s, %s)",
		v.kind, v.unitCode, formatFloat(v.value),
		formatOptional(v.maxValue, v.hasMax), formatOptional(v.minValue, v.hasMin),
		v.qualityControl)
}

// GoString makes %#v print the Raw form.
func (v Value) GoString() string {
	return v.Raw()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptional(f float64, ok bool) string {
	if !ok {
		return "<nil>"
	}
	return formatFloat(f)
}
