/*
types.go - Core record types for the bookshop ledger

PURPOSE:
  Explicit typed records for the three persisted relations (Member, Book,
  Sale) plus the read-only row shapes used by listings and the sales report.
  Business logic only ever sees these types; scanning database rows into
  them happens at the store boundary.

DERIVED FIELDS:
  Sale.Total is always computed as price*quantity - discount at the moment
  of the operation. It is never accepted from a caller.

SEE ALSO:
  - engine.go: The only writer of Sale records
  - store.go: Persistence interfaces over these types
*/
package pos

// Member is a customer record. Created at bootstrap, read-only afterwards.
type Member struct {
	ID    string
	Name  string
	Phone string
	Email string // optional
}

// Book is an inventory item. Stock is mutated only through the stock
// adjustment performed inside the engine's atomic unit.
type Book struct {
	ID    string
	Title string
	Price int64 // currency minor-unit-free, >= 0
	Stock int64 // on-hand copies, >= 0
}

// Sale links one Member and one Book. Quantity, member and book are fixed
// at creation; only the discount (and with it the derived total) can change.
type Sale struct {
	ID       int64  // store-assigned, sequential
	Date     string // YYYY-MM-DD, shape-checked only
	MemberID string
	BookID   string
	Quantity int64 // > 0
	Discount int64 // absolute amount, >= 0
	Total    int64 // derived; may be negative when discount exceeds price*quantity
}

// ListingRow is one line of the selection listing shared by update/delete.
type ListingRow struct {
	SaleID     int64
	MemberName string
	Date       string
}

// ReportRow is one block of the sales report: Sale joined with Member and
// Book for display.
type ReportRow struct {
	SaleID     int64
	Date       string
	MemberName string
	BookTitle  string
	Price      int64
	Quantity   int64
	Discount   int64
	Total      int64
}
