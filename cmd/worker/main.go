// Command worker runs maintenance jobs against the stores. The API binary
// schedules the invitation sweep itself; this exists for one-off runs from
// ops tooling or a cron container.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/guahanweb/photography-challenges-backend/config"
	invitationsrepo "github.com/guahanweb/photography-challenges-backend/internal/invitations/repository"
	"github.com/guahanweb/photography-challenges-backend/internal/invitations/sweeper"
	"github.com/guahanweb/photography-challenges-backend/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		slog.Error("usage: worker sweep-invitations")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "sweep-invitations":
		runSweep()
	default:
		slog.Error("unknown command", "command", os.Args[1])
		os.Exit(1)
	}
}

func runSweep() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := storage.NewClient(ctx, cfg.AWS)
	if err != nil {
		slog.Error("failed to create dynamodb client", "error", err)
		os.Exit(1)
	}

	sweep := sweeper.New(invitationsrepo.NewInvitationRepository(db, cfg.Tables.Invitations))
	n, err := sweep.Sweep(ctx)
	if err != nil {
		slog.Error("invitation sweep failed", "error", err)
		os.Exit(1)
	}
	slog.Info("invitation sweep complete", "expired", n)
}
