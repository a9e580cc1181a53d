// Package access keeps the set of admin identities used for authorization checks and the
// roster operations that mutate it.
package access

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/pkg/logger"
)

// Service owns the in-memory admin set. The set is rebuilt only by Reload, Add and Remove.
type Service struct {
	logger    *logger.Logger
	repo      models.Repository
	primaryID int64

	mu  sync.RWMutex
	ids map[int64]struct{}
}

func NewService(repo models.Repository, primaryID int64, logger *logger.Logger) *Service {
	return &Service{
		logger:    logger,
		repo:      repo,
		primaryID: primaryID,
		ids:       map[int64]struct{}{primaryID: {}},
	}
}

// PrimaryID is the configured admin that can never be removed.
func (s *Service) PrimaryID() int64 {
	return s.primaryID
}

// IsAdmin reports whether id may act as an admin. The primary admin is always an admin,
// even before its record is persisted.
func (s *Service) IsAdmin(id int64) bool {
	if id == s.primaryID {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns every admin identity in ascending order.
func (s *Service) IDs() []int64 {
	s.mu.RLock()
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Bootstrap persists the primary admin record if absent, moves the primary flag to it and
// loads the admin set.
func (s *Service) Bootstrap(ctx context.Context) error {
	var ids []int64
	err := s.repo.Transaction(ctx, func(repo models.Repository) error {
		_, err := repo.GetAdmin(ctx, s.primaryID)
		if errors.Is(err, models.ErrNotFound) {
			err = repo.CreateAdmin(ctx, &models.Admin{
				TelegramID: s.primaryID,
				AddedBy:    s.primaryID,
				IsPrimary:  true,
			})
		}
		if err != nil {
			return fmt.Errorf("failed to seed primary admin: %w", err)
		}
		if err := repo.SetPrimaryAdmin(ctx, s.primaryID); err != nil {
			return err
		}
		ids, err = adminIDs(ctx, repo)
		return err
	})
	if err != nil {
		return err
	}
	s.replace(ids)
	s.logger.Info("Admin set loaded", "admins", len(ids), "primary", s.primaryID)
	return nil
}

// Reload re-derives the admin set from the durable table.
func (s *Service) Reload(ctx context.Context) error {
	ids, err := adminIDs(ctx, s.repo)
	if err != nil {
		return err
	}
	s.replace(ids)
	return nil
}

// List returns the durable admin records, primary first.
func (s *Service) List(ctx context.Context) ([]*models.Admin, error) {
	return s.repo.ListAdmins(ctx)
}

func (s *Service) replace(ids []int64) {
	set := make(map[int64]struct{}, len(ids)+1)
	for _, id := range ids {
		set[id] = struct{}{}
	}
	set[s.primaryID] = struct{}{}

	s.mu.Lock()
	s.ids = set
	s.mu.Unlock()
}

func adminIDs(ctx context.Context, repo models.Repository) ([]int64, error) {
	admins, err := repo.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.TelegramID)
	}
	return ids, nil
}
