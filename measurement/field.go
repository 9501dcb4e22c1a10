package measurement

// Field is the JSON shape the API uses for any quantitative value:
//
//	{"unitCode": "wmoUnit:m", "value": 130.1, "qualityControl": "V"}
//
// Numbers are nullable upstream, hence the pointers.
type Field struct {
	UnitCode       string   `json:"unitCode"`
	Value          *float64 `json:"value"`
	MaxValue       *float64 `json:"maxValue,omitempty"`
	MinValue       *float64 `json:"minValue,omitempty"`
	QualityControl string   `json:"qualityControl,omitempty"`
}

// ToValue converts the field. ok is false when the reading itself is null.
func (f Field) ToValue() (Value, bool) {
	if f.Value == nil {
		return Value{}, false
	}

	var opts []Option
	if f.MaxValue != nil {
		opts = append(opts, WithMax(*f.MaxValue))
	}
	if f.MinValue != nil {
		opts = append(opts, WithMin(*f.MinValue))
	}
	if f.QualityControl != "" {
		opts = append(opts, WithQualityControl(f.QualityControl))
	}
	return FromCode(f.UnitCode, *f.Value, opts...), true
}

// FieldOf is the inverse of Field.ToValue.
func FieldOf(v Value) Field {
	f := Field{
		UnitCode:       v.unitCode,
		Value:          &v.value,
		QualityControl: v.qualityControl,
	}
	if v.hasMax {
		f.MaxValue = &v.maxValue
	}
	if v.hasMin {
		f.MinValue = &v.minValue
	}
	return f
}
