// Package store provides an in-memory pos.TxStore implementation
// (for testing/dev).
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/bookshop-ledger/pos"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	members map[string]pos.Member
	books   map[string]pos.Book
	sales   map[int64]pos.Sale
	nextID  int64

	// FailWrites, when set, makes every sale write and stock adjustment
	// return this error. FailStockAdjust fails only the stock adjustment,
	// which is how tests force a mid-transaction failure after the sale
	// insert already succeeded.
	FailWrites      error
	FailStockAdjust error
}

func NewMemory() *Memory {
	return &Memory{
		members: make(map[string]pos.Member),
		books:   make(map[string]pos.Book),
		sales:   make(map[int64]pos.Sale),
		nextID:  1,
	}
}

// PutMember and PutBook seed catalog records directly. Bootstrap only;
// the engine never creates catalog rows.
func (m *Memory) PutMember(member pos.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member.ID] = member
}

func (m *Memory) PutBook(book pos.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[book.ID] = book
}

func (m *Memory) Member(_ context.Context, id string) (*pos.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if member, found := m.members[id]; found {
		return &member, nil
	}
	return nil, nil
}

func (m *Memory) Book(_ context.Context, id string) (*pos.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if book, found := m.books[id]; found {
		return &book, nil
	}
	return nil, nil
}

func (m *Memory) Sale(_ context.Context, id int64) (*pos.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sale, found := m.sales[id]; found {
		return &sale, nil
	}
	return nil, nil
}

func (m *Memory) InsertSale(_ context.Context, sale pos.Sale) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(sale)
}

func (m *Memory) insertLocked(sale pos.Sale) (int64, error) {
	if m.FailWrites != nil {
		return 0, m.FailWrites
	}
	sale.ID = m.nextID
	m.nextID++
	m.sales[sale.ID] = sale
	return sale.ID, nil
}

func (m *Memory) UpdateSaleDiscount(_ context.Context, id int64, discount, total int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	sale, found := m.sales[id]
	if !found {
		return pos.ErrSaleNotFound
	}
	sale.Discount = discount
	sale.Total = total
	m.sales[id] = sale
	return nil
}

func (m *Memory) DeleteSale(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	if _, found := m.sales[id]; !found {
		return pos.ErrSaleNotFound
	}
	delete(m.sales, id)
	return nil
}

func (m *Memory) AdjustStock(_ context.Context, bookID string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adjustLocked(bookID, delta)
}

func (m *Memory) adjustLocked(bookID string, delta int64) error {
	if m.FailStockAdjust != nil {
		return m.FailStockAdjust
	}
	if m.FailWrites != nil {
		return m.FailWrites
	}
	book, found := m.books[bookID]
	if !found {
		return pos.ErrBookNotFound
	}
	if book.Stock+delta < 0 {
		return &pos.InsufficientStockError{
			BookID:    bookID,
			Available: book.Stock,
			Requested: -delta,
		}
	}
	book.Stock += delta
	m.books[bookID] = book
	return nil
}

func (m *Memory) ListSales(_ context.Context) ([]pos.ListingRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []pos.ListingRow
	for _, sale := range m.sales {
		name := sale.MemberID
		if member, found := m.members[sale.MemberID]; found {
			name = member.Name
		}
		rows = append(rows, pos.ListingRow{
			SaleID:     sale.ID,
			MemberName: name,
			Date:       sale.Date,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SaleID < rows[j].SaleID })
	return rows, nil
}

func (m *Memory) ReportRows(_ context.Context) ([]pos.ReportRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []pos.ReportRow
	for _, sale := range m.sales {
		row := pos.ReportRow{
			SaleID:   sale.ID,
			Date:     sale.Date,
			Quantity: sale.Quantity,
			Discount: sale.Discount,
			Total:    sale.Total,
		}
		if member, found := m.members[sale.MemberID]; found {
			row.MemberName = member.Name
		}
		if book, found := m.books[sale.BookID]; found {
			row.BookTitle = book.Title
			row.Price = book.Price
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SaleID < rows[j].SaleID })
	return rows, nil
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// WithTx executes fn within a simulated transaction: state is snapshotted
// first and restored if fn returns an error.
func (m *Memory) WithTx(_ context.Context, fn func(pos.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	if err := fn(&txView{parent: m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *Memory) snapshot() memorySnapshot {
	salesCopy := make(map[int64]pos.Sale, len(m.sales))
	for id, sale := range m.sales {
		salesCopy[id] = sale
	}
	booksCopy := make(map[string]pos.Book, len(m.books))
	for id, book := range m.books {
		booksCopy[id] = book
	}
	return memorySnapshot{sales: salesCopy, books: booksCopy, nextID: m.nextID}
}

func (m *Memory) restore(s memorySnapshot) {
	m.sales = s.sales
	m.books = s.books
	m.nextID = s.nextID
}

type memorySnapshot struct {
	sales  map[int64]pos.Sale
	books  map[string]pos.Book
	nextID int64
}

// txView gives fn access to the already-locked parent state.
type txView struct {
	parent *Memory
}

func (tv *txView) Member(_ context.Context, id string) (*pos.Member, error) {
	if member, found := tv.parent.members[id]; found {
		return &member, nil
	}
	return nil, nil
}

func (tv *txView) Book(_ context.Context, id string) (*pos.Book, error) {
	if book, found := tv.parent.books[id]; found {
		return &book, nil
	}
	return nil, nil
}

func (tv *txView) Sale(_ context.Context, id int64) (*pos.Sale, error) {
	if sale, found := tv.parent.sales[id]; found {
		return &sale, nil
	}
	return nil, nil
}

func (tv *txView) InsertSale(_ context.Context, sale pos.Sale) (int64, error) {
	return tv.parent.insertLocked(sale)
}

func (tv *txView) UpdateSaleDiscount(_ context.Context, id int64, discount, total int64) error {
	if tv.parent.FailWrites != nil {
		return tv.parent.FailWrites
	}
	sale, found := tv.parent.sales[id]
	if !found {
		return pos.ErrSaleNotFound
	}
	sale.Discount = discount
	sale.Total = total
	tv.parent.sales[id] = sale
	return nil
}

func (tv *txView) DeleteSale(_ context.Context, id int64) error {
	if tv.parent.FailWrites != nil {
		return tv.parent.FailWrites
	}
	if _, found := tv.parent.sales[id]; !found {
		return pos.ErrSaleNotFound
	}
	delete(tv.parent.sales, id)
	return nil
}

func (tv *txView) AdjustStock(_ context.Context, bookID string, delta int64) error {
	return tv.parent.adjustLocked(bookID, delta)
}

func (tv *txView) ListSales(ctx context.Context) ([]pos.ListingRow, error) {
	return nil, nil // not needed inside a transaction
}

func (tv *txView) ReportRows(ctx context.Context) ([]pos.ReportRow, error) {
	return nil, nil // not needed inside a transaction
}
