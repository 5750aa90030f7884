package models

import "unicode/utf8"

// Upper bounds matching the column widths in the schema.
const (
	MaxNameLength        = 100
	MaxProductNameLength = 255
	MaxUnitLength        = 50
	MaxEmailLength       = 255
	MaxPhoneLength       = 20
	MaxPlaceLength       = 100
	MaxPostalCodeLength  = 20
	MaxReferenceLength   = 64
	MaxCartQuantity      = 10000
)

// CheckLength rejects values longer than max characters.
func CheckLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return NewValidationError(field, "must be at most %d characters", max)
	}
	return nil
}
