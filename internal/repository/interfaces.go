package repository

import (
	"context"

	"github.com/alexanderramin/attendance/internal/domain"
)

type SnapshotRepo interface {
	// Save stores the snapshot with its tasks and entries. It issues several
	// statements; run it inside a UnitOfWork.
	Save(ctx context.Context, s *domain.Snapshot) error
	// Latest returns the most recently fetched snapshot with its tasks.
	Latest(ctx context.Context) (*domain.Snapshot, error)
	GetByID(ctx context.Context, id string) (*domain.Snapshot, error)
	// List returns snapshot headers, newest first, without tasks.
	List(ctx context.Context, limit int) ([]*domain.Snapshot, error)
	// Prune deletes all but the newest keep snapshots and reports how many
	// were removed.
	Prune(ctx context.Context, keep int) (int, error)
}
