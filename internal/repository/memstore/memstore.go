// Package memstore provides an in-memory implementation of the service
// persistence boundary. It enforces the same uniqueness rules as the
// Postgres schema (usernames, emails, transaction slugs) and reports
// violations with the repository sentinels, which makes it a drop-in
// stand-in for tests.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkempf/fintrack/internal/models"
	"github.com/dkempf/fintrack/internal/repository"
)

// Store keeps all records in memory, guarded by a single mutex.
type Store struct {
	mu     sync.Mutex
	nextID int64

	Users    map[int64]*models.User
	Accounts map[int64]*models.Account
	Txs      []models.Transaction
	Slugs    map[string]bool

	// CreateTxErr, when set, fails the next CreateTransaction call once.
	CreateTxErr error
}

// New initializes an empty store.
func New() *Store {
	return &Store{
		Users:    make(map[int64]*models.User),
		Accounts: make(map[int64]*models.Account),
		Slugs:    make(map[string]bool),
	}
}

func (m *Store) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Store) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return fmt.Errorf("username or email taken: %w", repository.ErrDuplicate)
		}
	}
	user.ID = m.id()
	user.CreatedAt = "2025-01-01T00:00:00Z"
	clone := *user
	m.Users[user.ID] = &clone
	return nil
}

func (m *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, repository.ErrNotFound)
}

func (m *Store) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}
	clone := *user
	return &clone, nil
}

func (m *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account.ID = m.id()
	account.CreatedAt = "2025-01-01T00:00:00Z"
	clone := *account
	m.Accounts[account.ID] = &clone
	return nil
}

func (m *Store) FindAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.Accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, repository.ErrNotFound)
	}
	clone := *account
	return &clone, nil
}

func (m *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.CreateTxErr; err != nil {
		m.CreateTxErr = nil
		return err
	}
	if m.Slugs[tx.Slug] {
		return fmt.Errorf("slug %q taken: %w", tx.Slug, repository.ErrDuplicate)
	}
	tx.ID = m.id()
	tx.CreatedAt = "2025-01-01T00:00:00Z"
	m.Slugs[tx.Slug] = true
	m.Txs = append(m.Txs, *tx)
	return nil
}

func (m *Store) ListTransactionsByUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for _, tx := range m.Txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *Store) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Transaction, len(m.Txs))
	copy(out, m.Txs)
	return out, nil
}

func (m *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, user := range m.Users {
		out = append(out, *user)
	}
	return out, nil
}

func (m *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Account
	for _, account := range m.Accounts {
		out = append(out, *account)
	}
	return out, nil
}

// MonthlyTotals sums income and expense for the user across all stored
// transactions. The in-memory store does not track real timestamps, so the
// month arguments are ignored.
func (m *Store) MonthlyTotals(ctx context.Context, userID int64, year int, month int) (income, expense float64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.Txs {
		if tx.UserID != userID {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			income += tx.Amount
		case models.TransactionTypeExpense:
			expense += tx.Amount
		}
	}
	return income, expense, nil
}
