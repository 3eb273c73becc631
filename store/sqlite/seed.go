package sqlite

// seed inserts the bootstrap catalog and the initial ledger rows.
// Every statement is idempotent so reopening an existing database file
// leaves its data alone.
func (s *Store) seed() error {
	stmts := `
	INSERT OR IGNORE INTO member VALUES ('M001', 'Alice', '0912-345678', 'alice@example.com');
	INSERT OR IGNORE INTO member VALUES ('M002', 'Bob', '0923-456789', 'bob@example.com');
	INSERT OR IGNORE INTO member VALUES ('M003', 'Cathy', '0934-567890', 'cathy@example.com');

	INSERT OR IGNORE INTO book VALUES ('B001', 'Python Programming', 600, 50);
	INSERT OR IGNORE INTO book VALUES ('B002', 'Data Science Basics', 800, 30);
	INSERT OR IGNORE INTO book VALUES ('B003', 'Machine Learning Guide', 1200, 20);

	INSERT INTO sale (sdate, mid, bid, sqty, sdiscount, stotal) SELECT '2024-01-15', 'M001', 'B001', 2, 100, 1100
	WHERE NOT EXISTS (SELECT 1 FROM sale WHERE sid = 1);
	INSERT INTO sale (sdate, mid, bid, sqty, sdiscount, stotal) SELECT '2024-01-16', 'M002', 'B002', 1, 50, 750
	WHERE NOT EXISTS (SELECT 1 FROM sale WHERE sid = 2);
	INSERT INTO sale (sdate, mid, bid, sqty, sdiscount, stotal) SELECT '2024-01-17', 'M001', 'B003', 3, 200, 3400
	WHERE NOT EXISTS (SELECT 1 FROM sale WHERE sid = 3);
	INSERT INTO sale (sdate, mid, bid, sqty, sdiscount, stotal) SELECT '2024-01-18', 'M003', 'B001', 1, 0, 600
	WHERE NOT EXISTS (SELECT 1 FROM sale WHERE sid = 4);
	`

	_, err := s.db.Exec(stmts)
	return err
}
