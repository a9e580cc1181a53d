package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/core-coin/ostiarius/internal/models"
)

// Add grants the admin role to target. The admin set is re-derived from the table inside
// the same transaction and swapped in only after commit.
func (s *Service) Add(ctx context.Context, target int64, username string, addedBy int64) (*models.Admin, error) {
	admin := &models.Admin{TelegramID: target, Username: username, AddedBy: addedBy}
	var ids []int64
	err := s.repo.Transaction(ctx, func(repo models.Repository) error {
		_, err := repo.GetAdmin(ctx, target)
		if err == nil {
			return fmt.Errorf("admin %d: %w", target, models.ErrAlreadyExists)
		}
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		if err := repo.CreateAdmin(ctx, admin); err != nil {
			return err
		}
		ids, err = adminIDs(ctx, repo)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.replace(ids)
	s.logger.Info("Admin added", "admin", target, "added_by", addedBy)
	return admin, nil
}

// Remove revokes the admin role. The primary admin is refused before any lookup.
func (s *Service) Remove(ctx context.Context, target int64) error {
	if target == s.primaryID {
		return models.ErrProtectedPrimary
	}
	var ids []int64
	err := s.repo.Transaction(ctx, func(repo models.Repository) error {
		if err := repo.DeleteAdmin(ctx, target); err != nil {
			return err
		}
		var err error
		ids, err = adminIDs(ctx, repo)
		return err
	})
	if err != nil {
		return err
	}
	s.replace(ids)
	s.logger.Info("Admin removed", "admin", target)
	return nil
}
