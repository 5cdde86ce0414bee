package sqlite

import "database/sql"

func initSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			default_currency TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS instruments (
			id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			name TEXT,
			category TEXT NOT NULL,
			native_currency TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS movements (
			id TEXT PRIMARY KEY,
			datetime TEXT NOT NULL,
			type TEXT NOT NULL,
			instrument_id TEXT,
			account_id TEXT NOT NULL,
			quantity REAL,
			unit_price REAL,
			trade_currency TEXT,
			gross_amount REAL,
			net_amount REAL,
			total_ars REAL,
			total_usd REAL,
			fee_amount REAL,
			fee_currency TEXT,
			fx_rate REAL,
			fx_type TEXT,
			fx_at_trade REAL,
			meta_settlement_currency TEXT,
			meta_transfer_group TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_movements_datetime ON movements(datetime)`,
		`CREATE INDEX IF NOT EXISTS idx_movements_instrument ON movements(instrument_id, account_id)`,
		`CREATE TABLE IF NOT EXISTS prices (
			instrument_id TEXT PRIMARY KEY,
			price REAL NOT NULL,
			updated_at TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return tx.Commit()
}
