// Package validation provides request validation for loan calculations.
// Sign and range checks on principal, term, and rate happen here before the
// schedule builder runs; the builder itself only rejects a non-positive term.
package validation

import (
	"fmt"

	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/iwvelando/mortgage-calc/pkg/schedule"
)

// Limits bounds the accepted loan parameters.
type Limits struct {
	MaxPrincipal   float64
	MaxTermYears   int
	MaxRatePercent float64
	MaxPrepayments int
}

// DefaultLimits returns the built-in parameter bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxPrincipal:   constants.DefaultMaxPrincipal,
		MaxTermYears:   constants.DefaultMaxTermYears,
		MaxRatePercent: constants.DefaultMaxRatePercent,
		MaxPrepayments: constants.DefaultMaxPrepayments,
	}
}

// ValidateLoanRequest checks caller-supplied parameters against the limits.
func ValidateLoanRequest(principal float64, termYears int, annualRatePercent float64, prepayments []schedule.Prepayment, limits Limits) error {
	if principal <= 0 {
		return fmt.Errorf("loan amount must be positive, got %.2f", principal)
	}
	if limits.MaxPrincipal > 0 && principal > limits.MaxPrincipal {
		return fmt.Errorf("loan amount %.2f exceeds maximum %.2f", principal, limits.MaxPrincipal)
	}
	if termYears <= 0 {
		return fmt.Errorf("loan term must be positive, got %d years", termYears)
	}
	if limits.MaxTermYears > 0 && termYears > limits.MaxTermYears {
		return fmt.Errorf("loan term %d years exceeds maximum %d", termYears, limits.MaxTermYears)
	}
	if annualRatePercent < 0 {
		return fmt.Errorf("interest rate must not be negative, got %.2f", annualRatePercent)
	}
	if limits.MaxRatePercent > 0 && annualRatePercent > limits.MaxRatePercent {
		return fmt.Errorf("interest rate %.2f exceeds maximum %.2f", annualRatePercent, limits.MaxRatePercent)
	}
	if limits.MaxPrepayments > 0 && len(prepayments) > limits.MaxPrepayments {
		return fmt.Errorf("too many prepayment events: %d exceeds maximum %d", len(prepayments), limits.MaxPrepayments)
	}
	for i, p := range prepayments {
		if p.Month < 1 {
			return fmt.Errorf("prepayment %d: month must be >= 1, got %d", i, p.Month)
		}
		if p.Amount < 0 {
			return fmt.Errorf("prepayment %d: amount must not be negative, got %.2f", i, p.Amount)
		}
	}
	return nil
}

// ValidateOutputFormat checks the requested CLI output format.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return nil
	}
	return fmt.Errorf("invalid output format %q, must be %q or %q",
		format, constants.OutputFormatPretty, constants.OutputFormatCSV)
}
