package units

// Quantity pairs a raw numeric field with the unit string the caller
// selected for it. This is the shape every dimensioned input field takes:
// the engine never parses free text, it converts (value, unit) pairs.
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Q is shorthand for building a Quantity.
func Q(value float64, unit string) Quantity {
	return Quantity{Value: value, Unit: unit}
}

// SI converts the quantity to the SI base unit of kind.
func (q Quantity) SI(kind Kind) (float64, error) {
	return ToSI(q.Value, kind, q.Unit)
}

// IsZero reports whether the field was left unset. A zero value with an
// explicit unit (for example an elevation of 0 m) is a provided value.
func (q Quantity) IsZero() bool {
	return q.Value == 0 && q.Unit == ""
}
