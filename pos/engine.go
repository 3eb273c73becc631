/*
engine.go - Sales transaction engine

PURPOSE:
  Orchestrates every mutation of the sale ledger: validates raw operator
  input against live catalog data, derives the sale total, and pairs the
  ledger write with the matching stock adjustment as one atomic unit.
  This is the only component with real invariants:

  1. Stock never goes negative.
  2. Total always equals price*quantity - discount at operation time.
  3. Edits re-derive the total; they never accept one from the caller.

VALIDATION ORDER (create):
  date shape -> member exists -> book exists -> quantity -> discount ->
  stock level. Each step produces a distinct error and aborts before any
  mutation.

PRICING:
  The book's price is re-read on every create and every discount update,
  so a later catalog price change affects subsequent edits. Totals are not
  clamped; a discount larger than price*quantity yields a negative total.

ATOMICITY:
  Create wraps the sale insert and the stock decrement in WithTx. Any
  persistence failure inside that unit rolls back both writes and surfaces
  as ErrTransactionFailed, distinct from validation failures. Update and
  delete are single-row writes and need no explicit wrapping.

SEE ALSO:
  - store.go:  Persistence interfaces
  - errors.go: Error taxonomy
  - report.go: Read-only listing and report helpers
*/
package pos

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Engine validates and applies sale mutations against a single store handle.
type Engine struct {
	store TxStore
	log   zerolog.Logger
}

// NewEngine creates an engine bound to the given store.
func NewEngine(store TxStore, log zerolog.Logger) *Engine {
	return &Engine{
		store: store,
		log:   log.With().Str("component", "engine").Logger(),
	}
}

// CreateSaleInput carries the raw operator strings for a new sale.
// Nothing is pre-parsed; the engine owns all validation.
type CreateSaleInput struct {
	Date     string
	MemberID string
	BookID   string
	Quantity string
	Discount string
}

// CreateSale validates the input in order, derives the total, and appends
// the sale while decrementing the book's stock in one atomic unit.
// On success the returned sale carries the store-assigned id.
func (e *Engine) CreateSale(ctx context.Context, in CreateSaleInput) (*Sale, error) {
	if len(in.Date) != 10 || strings.Count(in.Date, "-") != 2 {
		return nil, ErrBadDateFormat
	}

	member, err := e.store.Member(ctx, in.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	book, err := e.store.Book(ctx, in.BookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	qty, err := strconv.ParseInt(strings.TrimSpace(in.Quantity), 10, 64)
	if err != nil {
		return nil, ErrQuantityNotInteger
	}
	if qty <= 0 {
		return nil, ErrQuantityNotPositive
	}

	discount, err := parseDiscount(in.Discount)
	if err != nil {
		return nil, err
	}

	if book.Stock < qty {
		return nil, &InsufficientStockError{
			BookID:    book.ID,
			Available: book.Stock,
			Requested: qty,
		}
	}

	sale := Sale{
		Date:     in.Date,
		MemberID: member.ID,
		BookID:   book.ID,
		Quantity: qty,
		Discount: discount,
		Total:    book.Price*qty - discount,
	}

	err = e.store.WithTx(ctx, func(s Store) error {
		id, err := s.InsertSale(ctx, sale)
		if err != nil {
			return err
		}
		sale.ID = id
		return s.AdjustStock(ctx, book.ID, -qty)
	})
	if err != nil {
		e.log.Warn().Err(err).Str("book", book.ID).Int64("qty", qty).
			Msg("sale create rolled back")
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	e.log.Info().Int64("sale", sale.ID).Str("member", member.ID).
		Str("book", book.ID).Int64("total", sale.Total).Msg("sale recorded")
	return &sale, nil
}

// UpdateSaleDiscount replaces a sale's discount and re-derives its total
// from the sale's stored quantity and the book's current price. Quantity,
// member and book are not editable; stock is untouched.
func (e *Engine) UpdateSaleDiscount(ctx context.Context, saleID int64, rawDiscount string) (*Sale, error) {
	discount, err := parseDiscount(rawDiscount)
	if err != nil {
		return nil, err
	}

	sale, err := e.store.Sale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}

	book, err := e.store.Book(ctx, sale.BookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	sale.Discount = discount
	sale.Total = book.Price*sale.Quantity - discount

	if err := e.store.UpdateSaleDiscount(ctx, sale.ID, sale.Discount, sale.Total); err != nil {
		return nil, err
	}

	e.log.Info().Int64("sale", sale.ID).Int64("discount", discount).
		Int64("total", sale.Total).Msg("sale updated")
	return sale, nil
}

// DeleteSale removes the sale with the given id.
//
// The stock reserved at creation is not returned to the book.
// TODO: confirm with the shop whether deleting a sale should restore the
// book's stock; today the decrement from creation is kept.
func (e *Engine) DeleteSale(ctx context.Context, saleID int64) error {
	sale, err := e.store.Sale(ctx, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return ErrSaleNotFound
	}

	if err := e.store.DeleteSale(ctx, sale.ID); err != nil {
		return err
	}

	e.log.Info().Int64("sale", sale.ID).Msg("sale deleted")
	return nil
}

// ListSales returns the selection listing, ordered by sale id ascending.
func (e *Engine) ListSales(ctx context.Context) ([]ListingRow, error) {
	return e.store.ListSales(ctx)
}

// Report returns the full sales report rows, ordered by sale id ascending.
func (e *Engine) Report(ctx context.Context) ([]ReportRow, error) {
	return e.store.ReportRows(ctx)
}

func parseDiscount(raw string) (int64, error) {
	d, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, ErrDiscountNotInteger
	}
	if d < 0 {
		return 0, ErrDiscountNegative
	}
	return d, nil
}
