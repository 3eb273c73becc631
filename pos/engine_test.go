package pos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bookshop-ledger/pos"
	memstore "github.com/warp/bookshop-ledger/pos/store"
	"github.com/warp/bookshop-ledger/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// newTestEngine returns an engine over a seeded :memory: SQLite store
// (members M001-M003, books B001-B003, four seed sales).
func newTestEngine(t *testing.T) (*pos.Engine, *sqlite.Store) {
	store, err := sqlite.New(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return pos.NewEngine(store, zerolog.Nop()), store
}

// newMemoryEngine returns an engine over a bare in-memory store with one
// member and one book, for tests that need to mutate catalog state or
// inject store failures.
func newMemoryEngine(t *testing.T) (*pos.Engine, *memstore.Memory) {
	t.Helper()

	mem := memstore.NewMemory()
	mem.PutMember(pos.Member{ID: "M001", Name: "Alice", Phone: "0912-345678"})
	mem.PutBook(pos.Book{ID: "B001", Title: "Python Programming", Price: 600, Stock: 50})

	return pos.NewEngine(mem, zerolog.Nop()), mem
}

func createInput(date, member, book, qty, discount string) pos.CreateSaleInput {
	return pos.CreateSaleInput{
		Date:     date,
		MemberID: member,
		BookID:   book,
		Quantity: qty,
		Discount: discount,
	}
}

func bookStock(t *testing.T, store pos.Store, id string) int64 {
	t.Helper()
	book, err := store.Book(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, book)
	return book.Stock
}

// =============================================================================
// CREATE
// =============================================================================

func TestCreateSale_ComputesTotalAndDecrementsStock(t *testing.T) {
	// GIVEN: B001 costs 600 with 50 in stock
	// WHEN: Selling 2 copies with a 100 discount
	// THEN: Total is 600*2-100 and stock drops to 48, in the same operation

	engine, store := newTestEngine(t)
	ctx := context.Background()

	sale, err := engine.CreateSale(ctx, createInput("2024-01-01", "M001", "B001", "2", "100"))
	require.NoError(t, err)

	assert.Equal(t, int64(1100), sale.Total)
	assert.Equal(t, int64(2), sale.Quantity)
	assert.NotZero(t, sale.ID)
	assert.Equal(t, int64(48), bookStock(t, store, "B001"))

	stored, err := store.Sale(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(1100), stored.Total)
}

func TestCreateSale_NegativeTotalAccepted(t *testing.T) {
	// A discount larger than price*quantity is not clamped.

	engine, _ := newTestEngine(t)

	sale, err := engine.CreateSale(context.Background(),
		createInput("2024-01-01", "M001", "B001", "1", "700"))
	require.NoError(t, err)
	assert.Equal(t, int64(-100), sale.Total)
}

func TestCreateSale_ValidationOrder(t *testing.T) {
	// Each failure aborts before any mutation, and earlier checks win:
	// date shape, then member, then book, then quantity, then discount,
	// then stock.

	engine, store := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   pos.CreateSaleInput
		wantErr error
	}{
		{"date too short", createInput("2024-1-1", "M001", "B001", "1", "0"), pos.ErrBadDateFormat},
		{"date wrong separators", createInput("2024/01/01", "M001", "B001", "1", "0"), pos.ErrBadDateFormat},
		{"date before member check", createInput("bad", "NOPE", "B001", "1", "0"), pos.ErrBadDateFormat},
		{"unknown member", createInput("2024-01-01", "M999", "B001", "1", "0"), pos.ErrMemberNotFound},
		{"member before quantity parse", createInput("2024-01-01", "M999", "B001", "abc", "0"), pos.ErrMemberNotFound},
		{"unknown book", createInput("2024-01-01", "M001", "B999", "1", "0"), pos.ErrBookNotFound},
		{"quantity not integer", createInput("2024-01-01", "M001", "B001", "two", "0"), pos.ErrQuantityNotInteger},
		{"quantity zero", createInput("2024-01-01", "M001", "B001", "0", "0"), pos.ErrQuantityNotPositive},
		{"quantity negative", createInput("2024-01-01", "M001", "B001", "-3", "0"), pos.ErrQuantityNotPositive},
		{"discount not integer", createInput("2024-01-01", "M001", "B001", "1", "ten"), pos.ErrDiscountNotInteger},
		{"discount negative", createInput("2024-01-01", "M001", "B001", "1", "-1"), pos.ErrDiscountNegative},
		{"insufficient stock", createInput("2024-01-01", "M001", "B001", "51", "0"), pos.ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := store.ListSales(ctx)
			require.NoError(t, err)
			stockBefore := bookStock(t, store, "B001")

			_, err = engine.CreateSale(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)

			after, err := store.ListSales(ctx)
			require.NoError(t, err)
			assert.Len(t, after, len(before), "ledger must be unchanged")
			assert.Equal(t, stockBefore, bookStock(t, store, "B001"), "stock must be unchanged")
		})
	}
}

func TestCreateSale_InsufficientStock_ReportsCurrentLevel(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.CreateSale(context.Background(),
		createInput("2024-01-01", "M001", "B003", "21", "0"))

	var stockErr *pos.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(20), stockErr.Available)
	assert.Equal(t, int64(21), stockErr.Requested)
	assert.Equal(t, "B003", stockErr.BookID)
}

func TestCreateSale_RollbackOnStockFailure(t *testing.T) {
	// GIVEN: The store fails the stock decrement after the sale insert
	// WHEN: Creating a sale
	// THEN: The sale insert is rolled back too and the failure is reported
	//       as a transactional error, not a validation error

	engine, mem := newMemoryEngine(t)
	ctx := context.Background()

	mem.FailStockAdjust = errors.New("disk full")

	_, err := engine.CreateSale(ctx, createInput("2024-01-01", "M001", "B001", "2", "0"))
	require.ErrorIs(t, err, pos.ErrTransactionFailed)
	assert.False(t, pos.IsValidationError(err))

	listing, err := mem.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, listing, "no sale row may survive the rollback")
	assert.Equal(t, int64(50), bookStock(t, mem, "B001"))
}

// =============================================================================
// UPDATE
// =============================================================================

func TestUpdateSale_RecomputesTotalFromStoredQuantity(t *testing.T) {
	// Scenario from the shop floor: record a sale, then amend its discount.
	// The total is re-derived from the sale's quantity, never overwritten
	// with caller math.

	engine, store := newTestEngine(t)
	ctx := context.Background()

	sale, err := engine.CreateSale(ctx, createInput("2024-01-01", "M001", "B001", "2", "100"))
	require.NoError(t, err)
	require.Equal(t, int64(1100), sale.Total)

	updated, err := engine.UpdateSaleDiscount(ctx, sale.ID, "50")
	require.NoError(t, err)

	assert.Equal(t, int64(50), updated.Discount)
	assert.Equal(t, int64(1150), updated.Total) // 600*2 - 50
	assert.Equal(t, int64(48), bookStock(t, store, "B001"), "update never touches stock")
}

func TestUpdateSale_UsesCurrentBookPrice(t *testing.T) {
	// GIVEN: A sale recorded at price 600, then the catalog price changes
	// WHEN: Amending the discount
	// THEN: The total reflects the book's current price, not the price at
	//       the time of the original sale

	engine, mem := newMemoryEngine(t)
	ctx := context.Background()

	sale, err := engine.CreateSale(ctx, createInput("2024-01-01", "M001", "B001", "2", "100"))
	require.NoError(t, err)
	require.Equal(t, int64(1100), sale.Total)

	mem.PutBook(pos.Book{ID: "B001", Title: "Python Programming", Price: 800, Stock: 48})

	updated, err := engine.UpdateSaleDiscount(ctx, sale.ID, "50")
	require.NoError(t, err)
	assert.Equal(t, int64(1550), updated.Total) // 800*2 - 50
}

func TestUpdateSale_Validation(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.UpdateSaleDiscount(ctx, 1, "-5")
	assert.ErrorIs(t, err, pos.ErrDiscountNegative)

	_, err = engine.UpdateSaleDiscount(ctx, 1, "lots")
	assert.ErrorIs(t, err, pos.ErrDiscountNotInteger)

	_, err = engine.UpdateSaleDiscount(ctx, 9999, "0")
	assert.ErrorIs(t, err, pos.ErrSaleNotFound)
}

// =============================================================================
// DELETE
// =============================================================================

func TestDeleteSale_RemovesExactlyThatRow(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.DeleteSale(ctx, 2))

	listing, err := store.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, listing, 3)
	for _, row := range listing {
		assert.NotEqual(t, int64(2), row.SaleID)
	}

	err = engine.DeleteSale(ctx, 9999)
	assert.ErrorIs(t, err, pos.ErrSaleNotFound)
}

func TestDeleteSale_StockNotRestored(t *testing.T) {
	// Observed behavior: deleting a sale keeps the stock decrement from
	// creation. See the note on Engine.DeleteSale.

	engine, store := newTestEngine(t)
	ctx := context.Background()

	sale, err := engine.CreateSale(ctx, createInput("2024-01-01", "M001", "B001", "2", "0"))
	require.NoError(t, err)
	require.Equal(t, int64(48), bookStock(t, store, "B001"))

	require.NoError(t, engine.DeleteSale(ctx, sale.ID))
	assert.Equal(t, int64(48), bookStock(t, store, "B001"))
}

// =============================================================================
// FULL SCENARIO
// =============================================================================

func TestEngine_PointOfSaleScenario(t *testing.T) {
	// The whole flow on one book: sell, hit the stock ceiling, amend,
	// delete. B001: price 600, stock 50.

	engine, store := newTestEngine(t)
	ctx := context.Background()

	sale, err := engine.CreateSale(ctx, createInput("2024-01-01", "M001", "B001", "2", "100"))
	require.NoError(t, err)
	assert.Equal(t, int64(1100), sale.Total)
	assert.Equal(t, int64(48), bookStock(t, store, "B001"))

	_, err = engine.CreateSale(ctx, createInput("2024-01-02", "M001", "B001", "100", "0"))
	var stockErr *pos.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(48), stockErr.Available)
	assert.Equal(t, int64(48), bookStock(t, store, "B001"))

	updated, err := engine.UpdateSaleDiscount(ctx, sale.ID, "50")
	require.NoError(t, err)
	assert.Equal(t, int64(1150), updated.Total)
	assert.Equal(t, int64(48), bookStock(t, store, "B001"))

	require.NoError(t, engine.DeleteSale(ctx, sale.ID))
	got, err := store.Sale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
