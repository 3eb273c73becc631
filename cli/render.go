package cli

import (
	"errors"
	"fmt"

	"github.com/warp/bookshop-ledger/pos"
)

// renderReport prints one block per sale, ordered by sale id, plus the
// summary footer. Currency figures carry thousands separators.
func (c *CLI) renderReport(rows []pos.ReportRow) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "==================== Sales Report ====================")

	for i, row := range rows {
		fmt.Fprintf(c.out, "Sale #%d\n", i+1)
		fmt.Fprintf(c.out, "Sale id: %d\n", row.SaleID)
		fmt.Fprintf(c.out, "Date: %s\n", row.Date)
		fmt.Fprintf(c.out, "Member: %s\n", row.MemberName)
		fmt.Fprintf(c.out, "Book: %s\n", row.BookTitle)
		fmt.Fprintln(c.out, "--------------------------------------------------")
		fmt.Fprintln(c.out, "Price\tQty\tDiscount\tSubtotal")
		fmt.Fprintln(c.out, "--------------------------------------------------")
		fmt.Fprintf(c.out, "%s\t%d\t%s\t%s\n",
			pos.FormatAmount(row.Price), row.Quantity,
			pos.FormatAmount(row.Discount), pos.FormatAmount(row.Total))
		fmt.Fprintln(c.out, "--------------------------------------------------")
		fmt.Fprintf(c.out, "Sale total: %s\n", pos.FormatAmount(row.Total))
		fmt.Fprintln(c.out, "==================================================")
	}

	sum := pos.Summarize(rows)
	fmt.Fprintf(c.out, "Sales: %d  Gross: %s  Discounts: %s  Avg sale: %s\n",
		sum.Count, pos.FormatAmount(sum.Gross),
		pos.FormatAmount(sum.TotalDiscount), sum.Average.StringFixed(2))
}

// errorMessage maps engine errors to the operator-facing "=>" lines.
// Unanticipated errors are shown with their underlying message; nothing
// here is fatal.
func errorMessage(err error) string {
	var stockErr *pos.InsufficientStockError

	switch {
	case errors.Is(err, pos.ErrBadDateFormat):
		return "=> Error: date must be in YYYY-MM-DD format"
	case errors.Is(err, pos.ErrMemberNotFound):
		return "=> Error: member id not found"
	case errors.Is(err, pos.ErrBookNotFound):
		return "=> Error: book id not found"
	case errors.Is(err, pos.ErrQuantityNotPositive):
		return "=> Error: quantity must be a positive integer"
	case errors.Is(err, pos.ErrQuantityNotInteger):
		return "=> Error: quantity must be an integer"
	case errors.Is(err, pos.ErrDiscountNegative):
		return "=> Error: discount must not be negative"
	case errors.Is(err, pos.ErrDiscountNotInteger):
		return "=> Error: discount must be an integer"
	case errors.As(err, &stockErr):
		return fmt.Sprintf("=> Error: insufficient stock (current stock: %d)", stockErr.Available)
	case errors.Is(err, pos.ErrSaleNotFound):
		return "=> Error: sale not found"
	case errors.Is(err, pos.ErrInvalidSelection):
		return "=> Error: please enter a valid number"
	case errors.Is(err, pos.ErrTransactionFailed):
		return "=> Error: failed to record sale, transaction rolled back"
	default:
		return fmt.Sprintf("=> System error: %v", err)
	}
}
