/*
store.go - Persistence interfaces for the bookshop ledger

PURPOSE:
  Defines the interface between the sales engine and the database.
  One Store handle per process, passed explicitly; implementations can use
  SQLite (production) or in-memory storage (tests).

KEY INTERFACES:
  Store:   Catalog reads, sale CRUD, stock adjustment, report queries
  TxStore: Store plus WithTx for the atomic insert+decrement unit

OWNERSHIP:
  The store owns sale rows and the catalog. Book.Stock is written only via
  AdjustStock, and AdjustStock is only ever invoked from inside the engine.
  Member and Book records are bootstrap data; no create/delete exists.

NOT-FOUND CONVENTION:
  Single-record reads return (nil, nil) when the id does not resolve.
  Callers turn that into the appropriate sentinel error.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite store
  - pos/store/memory.go:    In-memory store for tests

SEE ALSO:
  - engine.go: The only caller of the write methods
*/
package pos

import "context"

// Store handles persistence for the catalog, the sale ledger, and the
// read-only report queries.
type Store interface {
	// Member returns the member with the given id, or (nil, nil).
	Member(ctx context.Context, id string) (*Member, error)

	// Book returns the book with the given id, or (nil, nil).
	Book(ctx context.Context, id string) (*Book, error)

	// Sale returns the sale with the given id, or (nil, nil).
	Sale(ctx context.Context, id int64) (*Sale, error)

	// InsertSale appends a sale row and returns the assigned sequential id.
	// The total on the row is the caller-derived value, never recomputed here.
	InsertSale(ctx context.Context, sale Sale) (int64, error)

	// UpdateSaleDiscount writes a sale's discount and re-derived total.
	// Quantity, member and book references are immutable after creation.
	UpdateSaleDiscount(ctx context.Context, id int64, discount, total int64) error

	// DeleteSale removes exactly the sale with the given id.
	DeleteSale(ctx context.Context, id int64) error

	// AdjustStock applies a signed delta to a book's stock. It fails with
	// InsufficientStockError if the result would go negative, and with
	// ErrBookNotFound if the id does not resolve. No other write may touch
	// Book.Stock.
	AdjustStock(ctx context.Context, bookID string, delta int64) error

	// ListSales returns (sale id, member name, date) rows ordered by sale id
	// ascending. Shared by the update/delete selection listings.
	ListSales(ctx context.Context) ([]ListingRow, error)

	// ReportRows returns every sale joined with its member and book, ordered
	// by sale id ascending. Read-only, outside any engine transaction.
	ReportRows(ctx context.Context) ([]ReportRow, error)
}

// TxStore wraps Store with transaction support.
// The engine uses this for the create path, where the sale insert and the
// stock decrement must commit or roll back together.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns an error, every write inside it is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
