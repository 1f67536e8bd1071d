package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkempf/fintrack/internal/apperr"
	"github.com/dkempf/fintrack/internal/models"
	"github.com/dkempf/fintrack/internal/repository"
	"github.com/dkempf/fintrack/internal/token"
)

const (
	maxAmount         = 1_000_000.0
	maxDescriptionLen = 255

	// The slug embeds a nanosecond timestamp, so a collision requires two
	// inserts for the same owner in the same nanosecond. The unique index
	// on slug catches that; a fresh slug is generated per attempt.
	slugAttempts = 3
)

// CreateTransactionInput is the payload for creating a transaction.
// TargetUserID is the admin-only override for acting on another user's
// behalf.
type CreateTransactionInput struct {
	AccountID       int64   `json:"account_id"`
	PaymentMethodID int64   `json:"payment_method_id"`
	Type            string  `json:"transaction_type"`
	Category        string  `json:"category"`
	Amount          float64 `json:"amount"`
	Description     string  `json:"description"`
	TargetUserID    *int64  `json:"target_user_id,omitempty"`
}

func (in *CreateTransactionInput) validate() map[string]string {
	fields := map[string]string{}
	if in.AccountID <= 0 {
		fields["account_id"] = "must be a positive integer"
	}
	if !models.ValidPaymentMethod(in.PaymentMethodID) {
		fields["payment_method_id"] = "is not a known payment method"
	}
	if in.Type != string(models.TransactionTypeIncome) && in.Type != string(models.TransactionTypeExpense) {
		fields["transaction_type"] = "must be income or expense"
	}
	if !models.ValidCategory(in.Category) {
		fields["category"] = "is not a known category"
	}
	if in.Amount <= 0 {
		fields["amount"] = "must be greater than zero"
	} else if in.Amount > maxAmount {
		fields["amount"] = "exceeds the maximum allowed amount"
	}
	if in.Description == "" {
		fields["description"] = "is required"
	} else if len(in.Description) > maxDescriptionLen {
		fields["description"] = "must be at most 255 characters"
	}
	return fields
}

// newSlug builds the externally visible transaction identifier from the
// owner id and a nanosecond timestamp.
func newSlug(ownerID int64) string {
	return fmt.Sprintf("txn-%d-%d", ownerID, time.Now().UnixNano())
}

// CreateTransaction validates the payload, decides ownership and persists
// the transaction. The insert is retried with a fresh slug if the slug's
// unique index reports a conflict.
func (s *Service) CreateTransaction(ctx context.Context, claims *token.Claims, in *CreateTransactionInput) (*models.Transaction, error) {
	if fields := in.validate(); len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	ownerID, err := s.resolveOwner(ctx, claims, in.AccountID, in.TargetUserID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < slugAttempts; attempt++ {
		tx := &models.Transaction{
			Slug:            newSlug(ownerID),
			AccountID:       in.AccountID,
			UserID:          ownerID,
			PaymentMethodID: in.PaymentMethodID,
			Type:            models.TransactionType(in.Type),
			Category:        in.Category,
			Amount:          in.Amount,
			Description:     in.Description,
		}
		err := s.store.CreateTransaction(ctx, tx)
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, apperr.Internal(err)
		}
		s.log.Infof("Transaction %s created for user %d", tx.Slug, ownerID)
		return tx, nil
	}
	return nil, apperr.Internal(fmt.Errorf("slug conflict persisted after %d attempts", slugAttempts))
}
