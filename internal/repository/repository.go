package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkempf/fintrack/internal/models"
	"github.com/lib/pq"
)

// Sentinel errors mapped by the service layer.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (class 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO fintrack.users (username, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.IsAdmin).
		Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("username or email taken: %w", ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByUsername retrieves a user by username
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, is_admin, created_at
		FROM fintrack.users
		WHERE username = $1`
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, is_admin, created_at
		FROM fintrack.users
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO fintrack.accounts (user_id, name, balance, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, account.UserID, account.Name, account.Balance).
		Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// FindAccountByID retrieves an account by id
func (r *Repository) FindAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	account := &models.Account{}
	query := `
		SELECT id, user_id, name, balance, created_at
		FROM fintrack.accounts
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&account.ID, &account.UserID, &account.Name, &account.Balance, &account.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// CreateTransaction persists a transaction as a single atomic insert
func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO fintrack.transactions
			(slug, account_id, user_id, payment_method_id, type, category, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		tx.Slug, tx.AccountID, tx.UserID, tx.PaymentMethodID, tx.Type, tx.Category, tx.Amount, tx.Description).
		Scan(&tx.ID, &tx.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("slug %q taken: %w", tx.Slug, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// ListTransactionsByUser retrieves all transactions owned by a user,
// newest first.
func (r *Repository) ListTransactionsByUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	query := `
		SELECT id, slug, account_id, user_id, payment_method_id, type, category, amount, description, created_at
		FROM fintrack.transactions
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListTransactions retrieves every transaction in the system, newest first.
func (r *Repository) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	query := `
		SELECT id, slug, account_id, user_id, payment_method_id, type, category, amount, description, created_at
		FROM fintrack.transactions
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.Slug, &tx.AccountID, &tx.UserID, &tx.PaymentMethodID,
			&tx.Type, &tx.Category, &tx.Amount, &tx.Description, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return txs, nil
}

// ListUsers retrieves all users
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, username, email, password_hash, is_admin, created_at
		FROM fintrack.users
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return users, nil
}

// ListAccounts retrieves all accounts
func (r *Repository) ListAccounts(ctx context.Context) ([]models.Account, error) {
	query := `
		SELECT id, user_id, name, balance, created_at
		FROM fintrack.accounts
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.ID, &account.UserID, &account.Name, &account.Balance, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	return accounts, nil
}

// MonthlyTotals returns a user's income and expense totals for the given
// month.
func (r *Repository) MonthlyTotals(ctx context.Context, userID int64, year int, month int) (income, expense float64, err error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM fintrack.transactions
		WHERE user_id = $1
		  AND EXTRACT(YEAR FROM created_at) = $2
		  AND EXTRACT(MONTH FROM created_at) = $3`
	err = r.db.QueryRowContext(ctx, query, userID, year, month).Scan(&income, &expense)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to compute monthly totals: %w", err)
	}
	return income, expense, nil
}
