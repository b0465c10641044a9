package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/shoplux/shoplux-backend/pkg/logger"
)

type fakeOrderExpirer struct {
	batches []int
	calls   int
	err     error
}

func (f *fakeOrderExpirer) ExpireDue(ctx context.Context, batchSize int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.calls >= len(f.batches) {
		return 0, nil
	}
	expired := f.batches[f.calls]
	f.calls++
	return expired, nil
}

func newOrderExpiryJob(t *testing.T, expirer *fakeOrderExpirer, batchSize int) Job {
	t.Helper()
	job, err := NewOrderExpiryJob(OrderExpiryJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		Orders:    expirer,
		BatchSize: batchSize,
	})
	if err != nil {
		t.Fatalf("NewOrderExpiryJob: %v", err)
	}
	return job
}

func TestOrderExpiryJobSweepsUntilShortBatch(t *testing.T) {
	expirer := &fakeOrderExpirer{batches: []int{2, 2, 1}}
	job := newOrderExpiryJob(t, expirer, 2)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if expirer.calls != 3 {
		t.Fatalf("expected 3 sweeps, got %d", expirer.calls)
	}
}

func TestOrderExpiryJobStopsAfterEmptySweep(t *testing.T) {
	expirer := &fakeOrderExpirer{}
	job := newOrderExpiryJob(t, expirer, 10)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestOrderExpiryJobPropagatesError(t *testing.T) {
	expirer := &fakeOrderExpirer{err: errors.New("boom")}
	job := newOrderExpiryJob(t, expirer, 10)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewOrderExpiryJobDefaultsBatchSize(t *testing.T) {
	job, err := NewOrderExpiryJob(OrderExpiryJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Orders: &fakeOrderExpirer{},
	})
	if err != nil {
		t.Fatalf("NewOrderExpiryJob: %v", err)
	}
	impl, ok := job.(*orderExpiryJob)
	if !ok {
		t.Fatalf("expected orderExpiryJob, got %T", job)
	}
	if impl.batchSize != defaultExpiryBatchSize {
		t.Fatalf("expected default batch size %d, got %d", defaultExpiryBatchSize, impl.batchSize)
	}
}
