package dsl

// Coerce builds schemas that convert their input before validating it, e.g.
// dsl.Coerce.Number().Min(1) accepts "42". See package coerce for the
// conversion rules.
var Coerce coercions

type coercions struct{}

// String is String().Coerce().
func (coercions) String() *StringSchema { return String().Coerce() }

// Number is Number().Coerce().
func (coercions) Number() *NumberSchema { return Number().Coerce() }

// Int is Int().Coerce().
func (coercions) Int() *IntSchema { return Int().Coerce() }

// Bool is Bool().Coerce().
func (coercions) Bool() *BoolSchema { return Bool().Coerce() }

// Date is Date().Coerce().
func (coercions) Date() *DateSchema { return Date().Coerce() }
