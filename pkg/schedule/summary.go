package schedule

import (
	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/iwvelando/mortgage-calc/pkg/mathutil"
)

// Summary is the presentational wrapper around a schedule: rounded aggregate
// figures, a short preview, and the full schedule. The JSON field names are
// the wire contract consumed by the web UI and exports.
type Summary struct {
	MonthlyPayment        float64 `json:"monthly_payment"`
	TotalPayment          float64 `json:"total_payment"`
	Overpayment           float64 `json:"overpayment"`
	OverpaymentPercentage float64 `json:"overpayment_percentage"`
	PaymentSchedule       []Entry `json:"payment_schedule"`
	FullSchedule          []Entry `json:"full_schedule"`
	TotalPayments         int     `json:"total_payments"`
}

// Summarize builds the schedule and derives display figures. No computation
// happens here beyond rounding and slicing.
func (b *Builder) Summarize(params LoanParameters, prepayments []Prepayment, strategy Strategy) (Summary, error) {
	result, err := b.Build(params, prepayments, strategy)
	if err != nil {
		return Summary{}, err
	}

	preview := result.Entries
	if len(preview) > constants.PreviewMonths {
		preview = preview[:constants.PreviewMonths]
	}

	overpaymentPercentage := 0.00
	if params.Principal > 0 {
		overpaymentPercentage = mathutil.Round(mathutil.CalculatePercentage(result.Overpayment, params.Principal))
	}

	return Summary{
		MonthlyPayment:        mathutil.Round(result.MonthlyPayment),
		TotalPayment:          mathutil.Round(result.TotalPaid),
		Overpayment:           mathutil.Round(result.Overpayment),
		OverpaymentPercentage: overpaymentPercentage,
		PaymentSchedule:       preview,
		FullSchedule:          result.Entries,
		TotalPayments:         len(result.Entries),
	}, nil
}

// CalculateMortgage is the primary entry point for callers working in years
// rather than months.
func (b *Builder) CalculateMortgage(principal float64, termYears int, annualRatePercent float64, prepayments []Prepayment, strategy Strategy) (Summary, error) {
	params := LoanParameters{
		Principal:         principal,
		TermMonths:        termYears * constants.MonthsPerYear,
		AnnualRatePercent: annualRatePercent,
	}
	return b.Summarize(params, prepayments, strategy)
}
