package measurement

import "cmp"

func (v Value) check(op string, other Value) error {
	if v.kind != other.kind {
		return &TypeMismatchError{Op: op, Left: v.kind, Right: other.kind}
	}
	return nil
}

// Compare returns -1, 0 or +1 as v is less than, equal to or greater than
// other. Only the reading is compared; bounds and QC flags are ignored.
// Ordering follows cmp.Compare, so NaN sorts before every other reading and
// compares equal to NaN. The boolean comparisons below use plain float64
// operators instead and report false for any NaN operand except NotEqual.
func (v Value) Compare(other Value) (int, error) {
	if err := v.check("compare", other); err != nil {
		return 0, err
	}
	return cmp.Compare(v.value, other.value), nil
}

// Equal reports whether both readings are the same number.
func (v Value) Equal(other Value) (bool, error) {
	if err := v.check("==", other); err != nil {
		return false, err
	}
	return v.value == other.value, nil
}

// NotEqual is the negation of Equal.
func (v Value) NotEqual(other Value) (bool, error) {
	if err := v.check("!=", other); err != nil {
		return false, err
	}
	return v.value != other.value, nil
}

// Less reports whether v reads lower than other.
func (v Value) Less(other Value) (bool, error) {
	if err := v.check("<", other); err != nil {
		return false, err
	}
	return v.value < other.value, nil
}

// LessOrEqual reports whether v reads at most other.
func (v Value) LessOrEqual(other Value) (bool, error) {
	if err := v.check("<=", other); err != nil {
		return false, err
	}
	return v.value <= other.value, nil
}

// Greater reports whether v reads higher than other.
func (v Value) Greater(other Value) (bool, error) {
	if err := v.check(">", other); err != nil {
		return false, err
	}
	return v.value > other.value, nil
}

// GreaterOrEqual reports whether v reads at least other.
func (v Value) GreaterOrEqual(other Value) (bool, error) {
	if err := v.check(">=", other); err != nil {
		return false, err
	}
	return v.value >= other.value, nil
}

// Add returns the sum of both readings as a plain number.
func (v Value) Add(other Value) (float64, error) {
	if err := v.check("+", other); err != nil {
		return 0, err
	}
	return v.value + other.value, nil
}

// Sub returns v minus other as a plain number.
func (v Value) Sub(other Value) (float64, error) {
	if err := v.check("-", other); err != nil {
		return 0, err
	}
	return v.value - other.value, nil
}

// Mul returns the product of both readings as a plain number.
func (v Value) Mul(other Value) (float64, error) {
	if err := v.check("*", other); err != nil {
		return 0, err
	}
	return v.value * other.value, nil
}

// Div divides the readings. Division by zero is not an error: the result is
// ±Inf, or NaN for 0/0, as in IEEE-754 float64 arithmetic.
func (v Value) Div(other Value) (float64, error) {
	if err := v.check("/", other); err != nil {
		return 0, err
	}
	return v.value / other.value, nil
}
