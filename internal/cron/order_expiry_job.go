package cron

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/logger"
)

const defaultExpiryBatchSize = 50

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderExpirer interface {
	ExpireDue(ctx context.Context, batchSize int) (int, error)
}

// OrderExpiryJobParams configure the pending order sweep.
type OrderExpiryJobParams struct {
	Logger    *logger.Logger
	Orders    orderExpirer
	BatchSize int
}

// NewOrderExpiryJob builds the cron job that cancels unpaid mobile-money
// orders whose payment deadline has passed.
func NewOrderExpiryJob(params OrderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultExpiryBatchSize
	}
	return &orderExpiryJob{
		logg:      params.Logger,
		orders:    params.Orders,
		batchSize: batchSize,
	}, nil
}

type orderExpiryJob struct {
	logg      *logger.Logger
	orders    orderExpirer
	batchSize int
}

func (j *orderExpiryJob) Name() string { return "order-expiry" }

// Run sweeps expired orders in batches until a sweep comes back short,
// meaning no more orders were due when it started.
func (j *orderExpiryJob) Run(ctx context.Context) error {
	total := 0
	for {
		expired, err := j.orders.ExpireDue(ctx, j.batchSize)
		total += expired
		if err != nil {
			return fmt.Errorf("order expiry sweep: %w", err)
		}
		if expired < j.batchSize {
			break
		}
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"expired_orders": total,
		"batch_size":     j.batchSize,
	})
	j.logg.Info(logCtx, "order expiry sweep complete")
	return nil
}
