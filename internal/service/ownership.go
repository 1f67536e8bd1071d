package service

import (
	"context"
	"errors"

	"github.com/dkempf/fintrack/internal/apperr"
	"github.com/dkempf/fintrack/internal/repository"
	"github.com/dkempf/fintrack/internal/token"
)

// resolveOwner decides which user a write against accountID is scoped to.
//
// An admin supplying an explicit target user acts on that user's behalf
// with no ownership check against the account. Everyone else must own the
// account; a missing account and a foreign account get the same answer so
// account ids cannot be probed.
func (s *Service) resolveOwner(ctx context.Context, claims *token.Claims, accountID int64, targetUserID *int64) (int64, error) {
	if claims.Admin && targetUserID != nil {
		target, err := s.store.FindUserByID(ctx, *targetUserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return 0, apperr.NotFound("target user not found")
			}
			return 0, apperr.Internal(err)
		}
		return target.ID, nil
	}

	account, err := s.store.FindAccountByID(ctx, accountID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return 0, apperr.Internal(err)
	}
	if err != nil || account.UserID != claims.UserID {
		return 0, apperr.Authorization("account access denied")
	}
	return claims.UserID, nil
}
