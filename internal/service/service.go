package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dkempf/fintrack/internal/apperr"
	"github.com/dkempf/fintrack/internal/models"
	"github.com/dkempf/fintrack/internal/repository"
	"github.com/dkempf/fintrack/internal/token"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const maxUsernameLen = 50

// Store is the persistence boundary the service depends on.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	FindAccountByID(ctx context.Context, id int64) (*models.Account, error)
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactionsByUser(ctx context.Context, userID int64) ([]models.Transaction, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

// Notifier sends user-facing mail. Failures are logged, never surfaced.
type Notifier interface {
	SendWelcome(to, username string) error
}

// Service handles business logic
type Service struct {
	store    Store
	tokens   *token.Service
	notifier Notifier
	log      *logrus.Logger
}

// NewService initializes a new service
func NewService(store Store, tokens *token.Service, notifier Notifier, log *logrus.Logger) *Service {
	return &Service{store: store, tokens: tokens, notifier: notifier, log: log}
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "is required"
	} else if len(username) > maxUsernameLen {
		fields["username"] = "must be at most 50 characters"
	}
	if email == "" {
		fields["email"] = "is required"
	} else if !strings.Contains(email, "@") {
		fields["email"] = "must be a valid email address"
	}
	if len(password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("username or email already exists")
		}
		return nil, apperr.Internal(err)
	}

	if s.notifier != nil {
		go func(to, name string) {
			if err := s.notifier.SendWelcome(to, name); err != nil {
				s.log.Errorf("Failed to send welcome email to %s: %v", to, err)
			}
		}(user.Email, user.Username)
	}

	s.log.Infof("User registered: %s", user.Username)
	return user, nil
}

// LoginResult carries the outcome of a successful login.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresIn int64
}

// Login authenticates a user and returns a signed token. Unknown usernames
// and wrong passwords produce the same error so accounts cannot be
// enumerated.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Authentication("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Authentication("Invalid credentials")
	}

	tokenString, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.log.Infof("User logged in: %s", user.Username)
	return &LoginResult{
		User:      user,
		Token:     tokenString,
		ExpiresIn: int64(time.Until(expiresAt).Seconds()),
	}, nil
}

// Me returns the full user record behind the authenticated claims.
func (s *Service) Me(ctx context.Context, claims *token.Claims) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Authentication("invalid token")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// CreateAccount creates a new account owned by the authenticated user.
func (s *Service) CreateAccount(ctx context.Context, claims *token.Claims, name string) (*models.Account, error) {
	if name == "" {
		return nil, apperr.Validation(map[string]string{"name": "is required"})
	}

	account := &models.Account{
		UserID:  claims.UserID,
		Name:    name,
		Balance: 0.0,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, apperr.Internal(err)
	}

	s.log.Infof("Account created for user %d: %s", claims.UserID, account.Name)
	return account, nil
}

// ListTransactionsForUser returns the transactions owned by the named user.
// Only the user themselves or an admin may read them.
func (s *Service) ListTransactionsForUser(ctx context.Context, claims *token.Claims, username string) ([]models.Transaction, error) {
	if len(username) > maxUsernameLen {
		return nil, apperr.Validation(map[string]string{"username": "must be at most 50 characters"})
	}
	if claims.Username != username && !claims.Admin {
		return nil, apperr.Authorization("access denied")
	}

	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}

	txs, err := s.store.ListTransactionsByUser(ctx, user.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return txs, nil
}

// ListAllTransactions returns every transaction in the system. Admin only,
// enforced by the middleware.
func (s *Service) ListAllTransactions(ctx context.Context) ([]models.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return txs, nil
}

// ListUsers returns every registered user. Admin only.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// ListAccounts returns every account. Admin only.
func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return accounts, nil
}
