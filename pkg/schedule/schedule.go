// Package schedule generates month-by-month loan amortization schedules for
// fixed-rate and interest-free loans, with support for scheduled extra
// principal payments under two strategies: shortening the remaining term or
// lowering the recurring payment.
package schedule

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/iwvelando/mortgage-calc/pkg/mathutil"
	"go.uber.org/zap"
)

// ErrInvalidTerm indicates a non-positive loan term.
var ErrInvalidTerm = errors.New("loan term must be positive")

// Strategy selects how a prepayment reshapes the remainder of the loan.
type Strategy string

const (
	// StrategyReduceTerm keeps the payment amount fixed after a prepayment;
	// the loan simply pays off sooner.
	StrategyReduceTerm Strategy = "reduce_term"

	// StrategyReducePayment recomputes the payment over the remaining
	// nominal term after a prepayment; the payoff date is preserved.
	StrategyReducePayment Strategy = "reduce_payment"
)

// ParseStrategy maps the wire value onto a Strategy. An empty value defaults
// to StrategyReduceTerm.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyReduceTerm, StrategyReducePayment:
		return Strategy(s), nil
	case "":
		return StrategyReduceTerm, nil
	}
	return "", fmt.Errorf("unknown prepayment strategy %q", s)
}

// LoanParameters describes a fixed-rate loan. An AnnualRatePercent of 0 means
// an interest-free installment loan.
type LoanParameters struct {
	Principal         float64
	TermMonths        int
	AnnualRatePercent float64
}

// Prepayment is an extra principal payment scheduled for a specific month.
type Prepayment struct {
	Month  int     `json:"month" mapstructure:"month"`
	Amount float64 `json:"amount" mapstructure:"amount"`
}

// Entry is one row of an amortization schedule. All monetary fields are
// rounded to two decimals.
type Entry struct {
	Month            int     `json:"month"`
	Payment          float64 `json:"payment"`
	Principal        float64 `json:"principal"`
	Interest         float64 `json:"interest"`
	Extra            float64 `json:"extra"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// Result holds the full schedule plus the builder's aggregate figures.
// MonthlyPayment is the payment amount active when the loop terminated; under
// StrategyReducePayment that is the last recomputed value, which can differ
// from the payment shown in earlier entries.
type Result struct {
	Entries        []Entry
	MonthlyPayment float64
	TotalPaid      float64
	Overpayment    float64
}

// Builder generates amortization schedules.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a schedule builder. A nil logger is replaced with a nop.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

// MonthlyPayment computes the level payment for a loan using the standard
// annuity formula. Zero interest divides the principal evenly over the term.
func MonthlyPayment(principal, annualRatePercent float64, termMonths int) float64 {
	if annualRatePercent == 0 {
		return principal / float64(termMonths)
	}

	periodicRate := annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
	factor := math.Pow(1.00+periodicRate, float64(termMonths))
	return principal * (periodicRate * factor) / (factor - 1.00)
}

// MergePrepayments folds the supplied events into a month lookup. Later
// entries targeting the same month overwrite earlier ones; events with a
// non-positive amount are dropped.
func MergePrepayments(prepayments []Prepayment) map[int]float64 {
	merged := make(map[int]float64, len(prepayments))
	for _, p := range prepayments {
		if p.Amount > 0 {
			merged[p.Month] = p.Amount
		}
	}
	return merged
}

// Build iterates monthly payment periods until the balance reaches zero,
// applying interest accrual, standard principal reduction, and any scheduled
// prepayment for the period. Principal and rate sign are the caller's
// responsibility; only a non-positive term is rejected here.
func (b *Builder) Build(params LoanParameters, prepayments []Prepayment, strategy Strategy) (Result, error) {
	if params.TermMonths <= 0 {
		return Result{}, fmt.Errorf("%w: got %d months", ErrInvalidTerm, params.TermMonths)
	}

	prepayMap := MergePrepayments(prepayments)
	monthlyRate := params.AnnualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
	payment := MonthlyPayment(params.Principal, params.AnnualRatePercent, params.TermMonths)

	// The principal floor below can make convergence arbitrarily slow for
	// extreme-rate inputs, so the loop is bounded by a generous multiple of
	// the nominal term.
	maxPeriods := constants.IterationCapFactor * params.TermMonths

	entries := make([]Entry, 0, params.TermMonths)
	remaining := params.Principal
	totalPaid := 0.00

	for month := 1; remaining > 0 && month <= maxPeriods; month++ {
		interest := 0.00
		if monthlyRate > 0 {
			interest = remaining * monthlyRate
		}

		principalPortion := payment - interest
		if principalPortion <= 0 && monthlyRate > 0 {
			principalPortion = constants.MinPrincipalPortion
		}
		remaining = math.Max(0.00, remaining-principalPortion)

		// Prepayments apply after the standard payment.
		extra := prepayMap[month]
		if extra > 0 && remaining > 0 {
			remaining = math.Max(0.00, remaining-extra)
			if strategy == StrategyReducePayment && remaining > 0 {
				monthsLeft := params.TermMonths - month
				if monthsLeft < 1 {
					monthsLeft = 1
				}
				payment = MonthlyPayment(remaining, params.AnnualRatePercent, monthsLeft)
				b.logger.Debug(fmt.Sprintf("month %d: recomputed payment to %.2f over %d remaining months",
					month, payment, monthsLeft),
					zap.String("op", "schedule.Build"),
				)
			}
			// StrategyReduceTerm leaves the payment alone; the reduced
			// balance ends the schedule early on its own.
		}

		if remaining <= constants.PayoffEpsilon {
			remaining = 0.00
		}

		entry := Entry{
			Month:            month,
			Payment:          mathutil.Round(principalPortion + interest),
			Principal:        mathutil.Round(principalPortion),
			Interest:         mathutil.Round(interest),
			Extra:            mathutil.Round(extra),
			RemainingBalance: mathutil.Round(remaining),
		}
		entries = append(entries, entry)
		totalPaid += entry.Payment + entry.Extra
	}

	return Result{
		Entries:        entries,
		MonthlyPayment: payment,
		TotalPaid:      totalPaid,
		Overpayment:    totalPaid - params.Principal,
	}, nil
}
