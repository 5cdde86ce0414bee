package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ncasas/cartera/internal/models"
)

// AccountStore persists broker, bank and wallet accounts.
type AccountStore struct {
	db *sql.DB
}

// SaveAccount inserts or replaces an account.
func (s *AccountStore) SaveAccount(ctx context.Context, acct *models.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO accounts (id, name, default_currency) VALUES (?, ?, ?)`,
		acct.ID, acct.Name, acct.DefaultCurrency)
	if err != nil {
		return fmt.Errorf("failed to save account %s: %w", acct.ID, err)
	}
	return nil
}

// GetAccount retrieves one account by ID.
func (s *AccountStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	var acct models.Account
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, default_currency FROM accounts WHERE id = ?`, id).
		Scan(&acct.ID, &acct.Name, &acct.DefaultCurrency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	return &acct, nil
}

// ListAccounts returns all accounts ordered by name.
func (s *AccountStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, default_currency FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		var acct models.Account
		if err := rows.Scan(&acct.ID, &acct.Name, &acct.DefaultCurrency); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		out = append(out, acct)
	}
	return out, rows.Err()
}
