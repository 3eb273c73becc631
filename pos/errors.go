/*
errors.go - Centralized error types for the sales engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The CLI layer matches on these with errors.Is/errors.As to pick the
  user-facing message; nothing here is ever fatal to the process.

ERROR CATEGORIES:
  1. Input-shape errors  - malformed date, non-integer quantity/discount
  2. Referential errors  - unknown member or book id
  3. Business-rule errors - insufficient stock (carries the current level)
  4. Transactional errors - persistence failure inside the atomic unit

SEE ALSO:
  - engine.go: Produces these errors
  - cli/menu.go: Maps them to user messages
*/
package pos

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrBadDateFormat is returned when a sale date is not shaped like
	// YYYY-MM-DD (10 characters, exactly two dashes). No calendar check.
	ErrBadDateFormat = errors.New("date must be in YYYY-MM-DD format")

	// ErrMemberNotFound is returned when a member id does not resolve.
	ErrMemberNotFound = errors.New("member id not found")

	// ErrBookNotFound is returned when a book id does not resolve.
	ErrBookNotFound = errors.New("book id not found")

	// ErrQuantityNotInteger is returned when a quantity fails to parse.
	ErrQuantityNotInteger = errors.New("quantity must be an integer")

	// ErrQuantityNotPositive is returned when a quantity parses but is <= 0.
	ErrQuantityNotPositive = errors.New("quantity must be a positive integer")

	// ErrDiscountNotInteger is returned when a discount fails to parse.
	ErrDiscountNotInteger = errors.New("discount must be an integer")

	// ErrDiscountNegative is returned when a discount parses but is < 0.
	ErrDiscountNegative = errors.New("discount must not be negative")

	// ErrInsufficientStock is the sentinel wrapped by InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrSaleNotFound is returned when a sale id does not resolve.
	ErrSaleNotFound = errors.New("sale not found")

	// ErrInvalidSelection is returned for an out-of-range or non-numeric
	// listing selection. A blank selection is a cancel, not an error.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrTransactionFailed is returned when the atomic insert+decrement unit
	// cannot be persisted. Both writes have been rolled back.
	ErrTransactionFailed = errors.New("transaction failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientStockError reports a create attempt that exceeds the book's
// on-hand stock. Available is the current level, included in the message
// shown to the operator.
type InsufficientStockError struct {
	BookID    string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.BookID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidationError reports whether err is caused by operator input rather
// than by the store. Validation errors leave the ledger untouched.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrBadDateFormat) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrBookNotFound) ||
		errors.Is(err, ErrQuantityNotInteger) ||
		errors.Is(err, ErrQuantityNotPositive) ||
		errors.Is(err, ErrDiscountNotInteger) ||
		errors.Is(err, ErrDiscountNegative) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidSelection)
}

// IsNotFound reports whether err indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrBookNotFound) ||
		errors.Is(err, ErrSaleNotFound)
}
