// Package output provides utilities for formatting and displaying schedule results.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/mortgage-calc/pkg/schedule"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CsvHeader is the exact column set and order expected by downstream
// consumers of the tabular export.
const CsvHeader = "Month,Payment,Principal,Interest,Extra Payment,Remaining Balance"

// CsvString renders the full schedule in comma-separated value format.
func CsvString(entries []schedule.Entry) string {
	var b strings.Builder
	b.WriteString(CsvHeader)
	b.WriteByte('\n')
	for _, e := range entries {
		fmt.Fprintf(&b, "%d,%.2f,%.2f,%.2f,%.2f,%.2f\n",
			e.Month, e.Payment, e.Principal, e.Interest, e.Extra, e.RemainingBalance)
	}
	return b.String()
}

// CsvFilename derives the attachment filename for a schedule export.
func CsvFilename(principal float64, termYears int, annualRatePercent float64, strategy schedule.Strategy) string {
	return fmt.Sprintf("mortgage_%d_%dy_%gpct_%s.csv", int(principal), termYears, annualRatePercent, strategy)
}

// PrettyFormat writes a human-readable summary and payment table.
func PrettyFormat(w io.Writer, summary schedule.Summary) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "Monthly payment:     $%.2f\n", summary.MonthlyPayment)
	_, _ = p.Fprintf(w, "Total paid:          $%.2f\n", summary.TotalPayment)
	_, _ = p.Fprintf(w, "Overpayment:         $%.2f (%.2f%%)\n", summary.Overpayment, summary.OverpaymentPercentage)
	_, _ = p.Fprintf(w, "Number of payments:  %d\n\n", summary.TotalPayments)

	fmt.Fprintf(w, "Month | Payment      | Principal    | Interest     | Extra        | Remaining\n")
	fmt.Fprintf(w, "_____ | ____________ | ____________ | ____________ | ____________ | ____________\n")
	for _, e := range summary.FullSchedule {
		_, _ = p.Fprintf(w, "%5d | %12.2f | %12.2f | %12.2f | %12.2f | %12.2f\n",
			e.Month, e.Payment, e.Principal, e.Interest, e.Extra, e.RemainingBalance)
	}
}
