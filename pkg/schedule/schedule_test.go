package schedule

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name              string
		principal         float64
		annualRatePercent float64
		termMonths        int
		expectedRange     []float64 // [min, max] expected range
	}{
		{
			name:              "20-year loan at 10 percent",
			principal:         1200000,
			annualRatePercent: 10.0,
			termMonths:        240,
			expectedRange:     []float64{11580, 11581}, // 11580.28 via annuity formula
		},
		{
			name:              "30-year mortgage at 6 percent",
			principal:         300000,
			annualRatePercent: 6.0,
			termMonths:        360,
			expectedRange:     []float64{1798, 1800}, // Around $1798.65
		},
		{
			name:              "Zero interest installment",
			principal:         12000,
			annualRatePercent: 0.0,
			termMonths:        60,
			expectedRange:     []float64{200, 200}, // Exactly $200
		},
		{
			name:              "High interest short loan",
			principal:         10000,
			annualRatePercent: 18.0,
			termMonths:        36,
			expectedRange:     []float64{361, 362}, // Around $361.52
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MonthlyPayment(tt.principal, tt.annualRatePercent, tt.termMonths)

			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("MonthlyPayment() = %.2f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestBuildInvalidTerm(t *testing.T) {
	builder := NewBuilder(zap.NewNop())

	for _, termMonths := range []int{0, -12} {
		_, err := builder.Build(LoanParameters{Principal: 100000, TermMonths: termMonths, AnnualRatePercent: 5.0}, nil, StrategyReduceTerm)
		if err == nil {
			t.Fatalf("Build() with term %d should have failed", termMonths)
		}
		if !errors.Is(err, ErrInvalidTerm) {
			t.Errorf("Build() with term %d returned %v, expected ErrInvalidTerm", termMonths, err)
		}
	}
}

func TestBuildStandardAnnuity(t *testing.T) {
	builder := NewBuilder(zap.NewNop())
	params := LoanParameters{Principal: 1200000, TermMonths: 240, AnnualRatePercent: 10.0}

	result, err := builder.Build(params, nil, StrategyReduceTerm)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if len(result.Entries) != params.TermMonths {
		t.Errorf("expected %d entries, got %d", params.TermMonths, len(result.Entries))
	}

	final := result.Entries[len(result.Entries)-1]
	if final.RemainingBalance != 0 {
		t.Errorf("final remaining balance = %.2f, expected 0", final.RemainingBalance)
	}

	// With no prepayments the level payment never changes.
	firstPayment := result.Entries[0].Payment
	sumPrincipal := 0.00
	previousBalance := params.Principal
	for _, entry := range result.Entries {
		if entry.Payment != firstPayment {
			t.Errorf("month %d: payment %.2f differs from initial %.2f", entry.Month, entry.Payment, firstPayment)
		}
		if entry.Extra != 0 {
			t.Errorf("month %d: unexpected extra payment %.2f", entry.Month, entry.Extra)
		}
		if entry.RemainingBalance > previousBalance {
			t.Errorf("month %d: balance %.2f increased from %.2f", entry.Month, entry.RemainingBalance, previousBalance)
		}
		previousBalance = entry.RemainingBalance
		sumPrincipal += entry.Principal
	}

	if math.Abs(sumPrincipal-params.Principal) > 1.0 {
		t.Errorf("sum of principal portions = %.2f, expected about %.2f", sumPrincipal, params.Principal)
	}

	if result.Overpayment < 0 {
		t.Errorf("overpayment = %.2f, expected non-negative", result.Overpayment)
	}
	if math.Abs(result.TotalPaid-result.Overpayment-params.Principal) > 0.01 {
		t.Errorf("overpayment %.2f does not equal totalPaid %.2f minus principal", result.Overpayment, result.TotalPaid)
	}
}

func TestBuildZeroRate(t *testing.T) {
	builder := NewBuilder(zap.NewNop())
	params := LoanParameters{Principal: 12000, TermMonths: 12, AnnualRatePercent: 0.0}

	result, err := builder.Build(params, nil, StrategyReduceTerm)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if len(result.Entries) != 12 {
		t.Fatalf("expected 12 entries, got %d", len(result.Entries))
	}
	for _, entry := range result.Entries {
		if entry.Interest != 0 {
			t.Errorf("month %d: interest = %.2f, expected 0", entry.Month, entry.Interest)
		}
		if entry.Payment != 1000 {
			t.Errorf("month %d: payment = %.2f, expected 1000", entry.Month, entry.Payment)
		}
	}
	if result.Entries[11].RemainingBalance != 0 {
		t.Errorf("final balance = %.2f, expected 0", result.Entries[11].RemainingBalance)
	}
	if math.Abs(result.TotalPaid-12000) > 0.01 {
		t.Errorf("total paid = %.2f, expected 12000", result.TotalPaid)
	}
}

func TestBuildReduceTerm(t *testing.T) {
	builder := NewBuilder(zap.NewNop())
	params := LoanParameters{Principal: 1200000, TermMonths: 240, AnnualRatePercent: 10.0}
	prepayments := []Prepayment{{Month: 12, Amount: 500000}}

	result, err := builder.Build(params, prepayments, StrategyReduceTerm)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if len(result.Entries) >= params.TermMonths {
		t.Errorf("expected fewer than %d entries after prepayment, got %d", params.TermMonths, len(result.Entries))
	}

	if result.Entries[11].Extra != 500000 {
		t.Errorf("month 12 extra = %.2f, expected 500000", result.Entries[11].Extra)
	}

	// The payment amount never changes under reduce_term.
	firstPayment := result.Entries[0].Payment
	for _, entry := range result.Entries {
		if entry.Payment != firstPayment {
			t.Errorf("month %d: payment %.2f differs from initial %.2f", entry.Month, entry.Payment, firstPayment)
		}
	}

	final := result.Entries[len(result.Entries)-1]
	if final.RemainingBalance != 0 {
		t.Errorf("final balance = %.2f, expected 0", final.RemainingBalance)
	}
}

func TestBuildReducePayment(t *testing.T) {
	builder := NewBuilder(zap.NewNop())
	params := LoanParameters{Principal: 1200000, TermMonths: 240, AnnualRatePercent: 10.0}
	prepayments := []Prepayment{{Month: 12, Amount: 500000}}

	result, err := builder.Build(params, prepayments, StrategyReducePayment)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// The term is preserved; the payment drops instead.
	if len(result.Entries) != params.TermMonths {
		t.Errorf("expected %d entries, got %d", params.TermMonths, len(result.Entries))
	}

	before := result.Entries[10].Payment
	after := result.Entries[12].Payment
	if after >= before {
		t.Errorf("payment after prepayment = %.2f, expected strictly less than %.2f", after, before)
	}

	// The reported monthly payment is the recomputed value, not the original.
	if result.MonthlyPayment >= before {
		t.Errorf("final monthly payment = %.2f, expected less than initial %.2f", result.MonthlyPayment, before)
	}

	final := result.Entries[len(result.Entries)-1]
	if final.RemainingBalance != 0 {
		t.Errorf("final balance = %.2f, expected 0", final.RemainingBalance)
	}
}

func TestBuildReducePaymentZeroRate(t *testing.T) {
	builder := NewBuilder(zap.NewNop())
	params := LoanParameters{Principal: 12000, TermMonths: 12, AnnualRatePercent: 0.0}
	prepayments := []Prepayment{{Month: 2, Amount: 6000}}

	result, err := builder.Build(params, prepayments, StrategyReducePayment)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if len(result.Entries) != 12 {
		t.Fatalf("expected 12 entries, got %d", len(result.Entries))
	}
	if result.Entries[0].Payment != 1000 {
		t.Errorf("month 1 payment = %.2f, expected 1000", result.Entries[0].Payment)
	}
	// Remaining 4000 over 10 months after the prepayment.
	if result.Entries[2].Payment != 400 {
		t.Errorf("month 3 payment = %.2f, expected 400", result.Entries[2].Payment)
	}
	if result.Entries[11].RemainingBalance != 0 {
		t.Errorf("final balance = %.2f, expected 0", result.Entries[11].RemainingBalance)
	}
}

func TestBuildPrepaymentPaysOffLoan(t *testing.T) {
	builder := NewBuilder(zap.NewNop())
	params := LoanParameters{Principal: 50000, TermMonths: 60, AnnualRatePercent: 5.0}
	prepayments := []Prepayment{{Month: 1, Amount: 60000}}

	result, err := builder.Build(params, prepayments, StrategyReduceTerm)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.Entries))
	}
	if result.Entries[0].RemainingBalance != 0 {
		t.Errorf("balance after payoff = %.2f, expected 0", result.Entries[0].RemainingBalance)
	}
}

func TestBuildDuplicateMonthLastWins(t *testing.T) {
	builder := NewBuilder(zap.NewNop())
	params := LoanParameters{Principal: 1200000, TermMonths: 240, AnnualRatePercent: 10.0}
	prepayments := []Prepayment{
		{Month: 12, Amount: 100000},
		{Month: 12, Amount: 200000},
	}

	result, err := builder.Build(params, prepayments, StrategyReduceTerm)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if result.Entries[11].Extra != 200000 {
		t.Errorf("month 12 extra = %.2f, expected the later event's 200000", result.Entries[11].Extra)
	}
}

func TestBuildIdempotent(t *testing.T) {
	builder := NewBuilder(zap.NewNop())
	params := LoanParameters{Principal: 750000, TermMonths: 180, AnnualRatePercent: 7.5}
	prepayments := []Prepayment{{Month: 24, Amount: 50000}}

	first, err := builder.Build(params, prepayments, StrategyReducePayment)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	second, err := builder.Build(params, prepayments, StrategyReducePayment)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different schedules")
	}
}

func TestBuildExtremeRateTerminates(t *testing.T) {
	builder := NewBuilder(zap.NewNop())
	params := LoanParameters{Principal: 1000, TermMonths: 12, AnnualRatePercent: 10000.0}

	result, err := builder.Build(params, nil, StrategyReduceTerm)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// The loop is bounded even when the principal-portion floor is what
	// makes progress.
	maxEntries := 1000 * params.TermMonths
	if len(result.Entries) > maxEntries {
		t.Errorf("schedule has %d entries, exceeds cap %d", len(result.Entries), maxEntries)
	}
	if len(result.Entries) == 0 {
		t.Error("expected at least one entry")
	}
}

func TestMergePrepayments(t *testing.T) {
	tests := []struct {
		name     string
		input    []Prepayment
		expected map[int]float64
	}{
		{
			name:     "Empty input",
			input:    nil,
			expected: map[int]float64{},
		},
		{
			name: "Drops non-positive amounts",
			input: []Prepayment{
				{Month: 3, Amount: 0},
				{Month: 4, Amount: -100},
				{Month: 5, Amount: 250},
			},
			expected: map[int]float64{5: 250},
		},
		{
			name: "Last event wins per month",
			input: []Prepayment{
				{Month: 6, Amount: 1000},
				{Month: 6, Amount: 2500},
			},
			expected: map[int]float64{6: 2500},
		},
		{
			name: "Distinct months preserved",
			input: []Prepayment{
				{Month: 1, Amount: 100},
				{Month: 2, Amount: 200},
			},
			expected: map[int]float64{1: 100, 2: 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MergePrepayments(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("MergePrepayments() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  Strategy
		expectErr bool
	}{
		{"Reduce term", "reduce_term", StrategyReduceTerm, false},
		{"Reduce payment", "reduce_payment", StrategyReducePayment, false},
		{"Empty defaults to reduce term", "", StrategyReduceTerm, false},
		{"Unknown value", "reduce_everything", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseStrategy(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Errorf("ParseStrategy(%q) should have failed", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStrategy(%q) failed: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParseStrategy(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
