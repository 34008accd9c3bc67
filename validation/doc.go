// Package validation checks user input and reports failures as
// INVALID_INPUT AppErrors with per-field details.
//
// # Struct Tag Validation
//
//	type Job struct {
//	    File   string `json:"file" validate:"required"`
//	    Ticker string `json:"ticker" validate:"required,ticker"`
//	}
//	err := validation.Validate(job)
//
// The "ticker" tag accepts 1-10 upper-case letters, digits, dots or dashes
// starting with a letter (AAPL, BRK.B).
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("ticker", p.Ticker).Range("year", p.Year, 1900, 2100)
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
