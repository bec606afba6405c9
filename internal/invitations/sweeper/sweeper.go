// Package sweeper expires stale pending invitations. The invitation store
// never transitions statuses on its own; the sweeper is an ordinary caller
// that does it on a schedule.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/guahanweb/photography-challenges-backend/internal/invitations/domain"
	"github.com/guahanweb/photography-challenges-backend/internal/invitations/repository"
)

type Sweeper struct {
	repo *repository.InvitationRepository
}

func New(repo *repository.InvitationRepository) *Sweeper {
	return &Sweeper{repo: repo}
}

// Sweep transitions every PENDING invitation past its expiry to EXPIRED and
// returns how many were transitioned. Individual update failures are logged
// and skipped so one bad row does not block the rest.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	stale, err := s.repo.ListExpiredPending(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	expired := domain.StatusExpired
	count := 0
	for _, inv := range stale {
		_, err := s.repo.Update(ctx, inv.InvitationID, domain.UpdateInput{Status: &expired})
		if err != nil {
			slog.Warn("failed to expire invitation", "invitationId", inv.InvitationID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}
