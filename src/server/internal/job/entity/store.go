package jobentity

import (
	"context"
	"time"
)

type Store interface {
	Put(ctx context.Context, job Job) error
	Get(ctx context.Context, jobID string) (Job, error)
	ListExpired(ctx context.Context, before time.Time) ([]Job, error)
	Delete(ctx context.Context, jobID string) error
}
