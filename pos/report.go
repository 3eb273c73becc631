/*
report.go - Read-only report and selection helpers

PURPOSE:
  Everything here is display support with no invariants: the selection
  helper shared by update/delete, and the report summary footer. Neither
  mutates anything; both operate on rows the store already ordered by
  sale id ascending.

SELECTION CONVENTION:
  Listings are shown 1-indexed. A blank response cancels with no side
  effects. Anything else must be an integer between 1 and the listing
  length inclusive, and maps to the underlying sale id.

SEE ALSO:
  - engine.go: Supplies the listing and report rows
  - cli/menu.go: Renders them
*/
package pos

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ResolveSelection maps a raw 1-based listing choice to a sale id.
// A blank choice returns ok=false with no error (cancel). An out-of-range
// or non-numeric choice returns ErrInvalidSelection.
func ResolveSelection(listing []ListingRow, choice string) (saleID int64, ok bool, err error) {
	trimmed := strings.TrimSpace(choice)
	if trimmed == "" {
		return 0, false, nil
	}

	idx, perr := strconv.Atoi(trimmed)
	if perr != nil {
		return 0, false, ErrInvalidSelection
	}
	if idx < 1 || idx > len(listing) {
		return 0, false, ErrInvalidSelection
	}

	return listing[idx-1].SaleID, true, nil
}

// Summary aggregates the report rows for the footer of the sales report.
type Summary struct {
	Count         int
	Gross         int64 // sum of totals
	TotalDiscount int64
	Average       decimal.Decimal // gross / count, two decimal places
}

// Summarize computes the report footer. An empty report yields a zero
// summary.
func Summarize(rows []ReportRow) Summary {
	var s Summary
	for _, r := range rows {
		s.Count++
		s.Gross += r.Total
		s.TotalDiscount += r.Discount
	}
	if s.Count > 0 {
		s.Average = decimal.NewFromInt(s.Gross).
			Div(decimal.NewFromInt(int64(s.Count))).
			Round(2)
	}
	return s
}
