/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements pos.Store and pos.TxStore using SQLite. The whole shop runs
  against one database file with one store handle per process.

KEY TABLES:
  member: Customer records (bootstrap data)
  book:   Inventory items with unit price and on-hand stock
  sale:   The sale ledger, sequential ids via AUTOINCREMENT

STOCK INVARIANT:
  AdjustStock is the only statement that writes book.bstock, and its WHERE
  clause refuses any delta that would take stock below zero.

TRANSACTIONS:
  WithTx wraps the engine's create unit (sale insert + stock decrement) in
  a database transaction: rollback on error, commit otherwise. Update and
  delete are single statements and inherently atomic.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. There is exactly one writer in this
  system, so this sits on top of SQLite's own write serialization.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) and foreign keys on.

USAGE:
  store, err := sqlite.New("./bookstore.db", log)
  if err != nil {
      log.Fatal().Err(err).Msg("open store")
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated and seed data inserted (idempotently) on New().
  For production, use a proper migration tool with versioned migrations.

SEE ALSO:
  - pos/store.go: Interface definitions
  - pos/engine.go: The engine driving the writes
  - seed.go: Bootstrap catalog and ledger rows
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/warp/bookshop-ledger/pos"
)

// Store implements pos.TxStore using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	log zerolog.Logger
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer, one connection. This also keeps ":memory:" databases on
	// a single connection (each sqlite3 connection gets its own memory db).
	db.SetMaxOpenConns(1)

	store := &Store{db: db, log: log.With().Str("component", "sqlite").Logger()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := store.seed(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	store.log.Debug().Str("path", dbPath).Msg("store ready")
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS member (
		mid TEXT PRIMARY KEY,
		mname TEXT NOT NULL,
		mphone TEXT NOT NULL,
		memail TEXT
	);

	CREATE TABLE IF NOT EXISTS book (
		bid TEXT PRIMARY KEY,
		btitle TEXT NOT NULL,
		bprice INTEGER NOT NULL,
		bstock INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sale (
		sid INTEGER PRIMARY KEY AUTOINCREMENT,
		sdate TEXT NOT NULL,
		mid TEXT NOT NULL,
		bid TEXT NOT NULL,
		sqty INTEGER NOT NULL,
		sdiscount INTEGER NOT NULL,
		stotal INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// executor is satisfied by both *sql.DB and *sql.Tx, so the same query
// helpers serve direct calls and calls inside WithTx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// CATALOG READS
// =============================================================================

// Member returns the member with the given id, or (nil, nil).
func (s *Store) Member(ctx context.Context, id string) (*pos.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.member(ctx, s.db, id)
}

func (s *Store) member(ctx context.Context, ex executor, id string) (*pos.Member, error) {
	var m pos.Member
	var email sql.NullString

	err := ex.QueryRowContext(ctx,
		"SELECT mid, mname, mphone, memail FROM member WHERE mid = ?", id,
	).Scan(&m.ID, &m.Name, &m.Phone, &email)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query member: %w", err)
	}

	m.Email = email.String
	return &m, nil
}

// Book returns the book with the given id, or (nil, nil).
func (s *Store) Book(ctx context.Context, id string) (*pos.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book(ctx, s.db, id)
}

func (s *Store) book(ctx context.Context, ex executor, id string) (*pos.Book, error) {
	var b pos.Book

	err := ex.QueryRowContext(ctx,
		"SELECT bid, btitle, bprice, bstock FROM book WHERE bid = ?", id,
	).Scan(&b.ID, &b.Title, &b.Price, &b.Stock)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}

	return &b, nil
}

// =============================================================================
// SALE LEDGER
// =============================================================================

// Sale returns the sale with the given id, or (nil, nil).
func (s *Store) Sale(ctx context.Context, id int64) (*pos.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sale(ctx, s.db, id)
}

func (s *Store) sale(ctx context.Context, ex executor, id int64) (*pos.Sale, error) {
	var sale pos.Sale

	err := ex.QueryRowContext(ctx,
		"SELECT sid, sdate, mid, bid, sqty, sdiscount, stotal FROM sale WHERE sid = ?", id,
	).Scan(&sale.ID, &sale.Date, &sale.MemberID, &sale.BookID,
		&sale.Quantity, &sale.Discount, &sale.Total)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sale: %w", err)
	}

	return &sale, nil
}

// InsertSale appends a sale row and returns the AUTOINCREMENT-assigned id.
func (s *Store) InsertSale(ctx context.Context, sale pos.Sale) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertSale(ctx, s.db, sale)
}

func (s *Store) insertSale(ctx context.Context, ex executor, sale pos.Sale) (int64, error) {
	res, err := ex.ExecContext(ctx,
		"INSERT INTO sale (sdate, mid, bid, sqty, sdiscount, stotal) VALUES (?, ?, ?, ?, ?, ?)",
		sale.Date, sale.MemberID, sale.BookID, sale.Quantity, sale.Discount, sale.Total,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sale: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read sale id: %w", err)
	}
	return id, nil
}

// UpdateSaleDiscount writes the discount and re-derived total of one sale.
func (s *Store) UpdateSaleDiscount(ctx context.Context, id int64, discount, total int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateSaleDiscount(ctx, s.db, id, discount, total)
}

func (s *Store) updateSaleDiscount(ctx context.Context, ex executor, id int64, discount, total int64) error {
	res, err := ex.ExecContext(ctx,
		"UPDATE sale SET sdiscount = ?, stotal = ? WHERE sid = ?",
		discount, total, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update sale: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pos.ErrSaleNotFound
	}
	return nil
}

// DeleteSale removes exactly one sale row.
func (s *Store) DeleteSale(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteSale(ctx, s.db, id)
}

func (s *Store) deleteSale(ctx context.Context, ex executor, id int64) error {
	res, err := ex.ExecContext(ctx, "DELETE FROM sale WHERE sid = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pos.ErrSaleNotFound
	}
	return nil
}

// =============================================================================
// STOCK ADJUSTMENT
// =============================================================================

// AdjustStock applies a signed delta to a book's stock. The WHERE clause
// enforces the non-negativity invariant at the statement level.
func (s *Store) AdjustStock(ctx context.Context, bookID string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjustStock(ctx, s.db, bookID, delta)
}

func (s *Store) adjustStock(ctx context.Context, ex executor, bookID string, delta int64) error {
	res, err := ex.ExecContext(ctx,
		"UPDATE book SET bstock = bstock + ? WHERE bid = ? AND bstock + ? >= 0",
		delta, bookID, delta,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read adjust result: %w", err)
	}
	if n > 0 {
		return nil
	}

	// No row matched: either the book is missing or the floor was hit.
	book, err := s.book(ctx, ex, bookID)
	if err != nil {
		return err
	}
	if book == nil {
		return pos.ErrBookNotFound
	}
	return &pos.InsufficientStockError{
		BookID:    bookID,
		Available: book.Stock,
		Requested: -delta,
	}
}

// =============================================================================
// READ-ONLY VIEWS
// =============================================================================

// ListSales returns the selection listing ordered by sale id ascending.
func (s *Store) ListSales(ctx context.Context) ([]pos.ListingRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT s.sid, m.mname, s.sdate
		FROM sale s
		JOIN member m ON s.mid = m.mid
		ORDER BY s.sid
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var listing []pos.ListingRow
	for rows.Next() {
		var row pos.ListingRow
		if err := rows.Scan(&row.SaleID, &row.MemberName, &row.Date); err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		listing = append(listing, row)
	}
	return listing, rows.Err()
}

// ReportRows returns every sale joined with member and book, ordered by
// sale id ascending.
func (s *Store) ReportRows(ctx context.Context) ([]pos.ReportRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT s.sid, s.sdate, m.mname, b.btitle, b.bprice, s.sqty, s.sdiscount, s.stotal
		FROM sale s
		JOIN member m ON s.mid = m.mid
		JOIN book b ON s.bid = b.bid
		ORDER BY s.sid
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}
	defer rows.Close()

	var report []pos.ReportRow
	for rows.Next() {
		var row pos.ReportRow
		if err := rows.Scan(&row.SaleID, &row.Date, &row.MemberName, &row.BookTitle,
			&row.Price, &row.Quantity, &row.Discount, &row.Total); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

// =============================================================================
// TRANSACTIONAL STORE (pos.TxStore interface)
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(pos.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx, parent: s}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// txStore routes Store calls through an open *sql.Tx. The parent's mutex
// is already held for the whole transaction.
type txStore struct {
	tx     *sql.Tx
	parent *Store
}

func (ts *txStore) Member(ctx context.Context, id string) (*pos.Member, error) {
	return ts.parent.member(ctx, ts.tx, id)
}

func (ts *txStore) Book(ctx context.Context, id string) (*pos.Book, error) {
	return ts.parent.book(ctx, ts.tx, id)
}

func (ts *txStore) Sale(ctx context.Context, id int64) (*pos.Sale, error) {
	return ts.parent.sale(ctx, ts.tx, id)
}

func (ts *txStore) InsertSale(ctx context.Context, sale pos.Sale) (int64, error) {
	return ts.parent.insertSale(ctx, ts.tx, sale)
}

func (ts *txStore) UpdateSaleDiscount(ctx context.Context, id int64, discount, total int64) error {
	return ts.parent.updateSaleDiscount(ctx, ts.tx, id, discount, total)
}

func (ts *txStore) DeleteSale(ctx context.Context, id int64) error {
	return ts.parent.deleteSale(ctx, ts.tx, id)
}

func (ts *txStore) AdjustStock(ctx context.Context, bookID string, delta int64) error {
	return ts.parent.adjustStock(ctx, ts.tx, bookID, delta)
}

func (ts *txStore) ListSales(ctx context.Context) ([]pos.ListingRow, error) {
	return nil, fmt.Errorf("ListSales is not available inside a transaction")
}

func (ts *txStore) ReportRows(ctx context.Context) ([]pos.ReportRow, error) {
	return nil, fmt.Errorf("ReportRows is not available inside a transaction")
}
