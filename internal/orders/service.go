package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/internal/cart"
	"github.com/shoplux/shoplux-backend/internal/coupons"
	"github.com/shoplux/shoplux-backend/internal/shipping"
	"github.com/shoplux/shoplux-backend/pkg/db"
	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/outbox"
	"github.com/shoplux/shoplux-backend/pkg/outbox/payloads"
	"github.com/shoplux/shoplux-backend/pkg/pagination"
	"github.com/shoplux/shoplux-backend/pkg/types"
)

const orderNumberAttempts = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type rateLimiter interface {
	SlidingWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type cartReader interface {
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
	WithTx(tx *gorm.DB) *cart.Repository
}

// CreateOrderInput carries everything the assembler needs to place an order.
type CreateOrderInput struct {
	UserID          uuid.UUID
	PaymentMethod   enums.PaymentMethod
	ShippingMethod  string
	ShippingAddress types.PostalAddress
	BillingAddress  *types.PostalAddress
	Notes           *string
}

// Limits configures order-creation throttling and pending-order expiry.
type Limits struct {
	RateWindow      time.Duration
	RateAttempts    int
	TaxRatePercent  int
	PendingOrderTTL time.Duration
}

// Service assembles orders from carts and drives their lifecycle.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus, actor *outbox.ActorRef) error
	AttachGatewayRef(ctx context.Context, orderID uuid.UUID, paymentURL, externalRef *string) error
	MarkPaid(ctx context.Context, orderID uuid.UUID, externalRef *string) error
	MarkPaymentFailed(ctx context.Context, orderID uuid.UUID, failureCode string) error
	ExpireDue(ctx context.Context, batchSize int) (int, error)
}

type service struct {
	repo     *Repository
	cartRepo cartReader
	coupons  coupons.Service
	couponDB *coupons.Repository
	shipping shipping.Service
	tx       txRunner
	outbox   outboxPublisher
	limiter  rateLimiter
	limits   Limits
}

// NewService builds the order assembler with the required collaborators.
func NewService(
	repo *Repository,
	cartRepo cartReader,
	couponSvc coupons.Service,
	couponDB *coupons.Repository,
	shippingSvc shipping.Service,
	tx txRunner,
	publisher outboxPublisher,
	limiter rateLimiter,
	limits Limits,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if couponSvc == nil || couponDB == nil {
		return nil, fmt.Errorf("coupon service and repository required")
	}
	if shippingSvc == nil {
		return nil, fmt.Errorf("shipping service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("rate limiter required")
	}
	if limits.RateAttempts <= 0 || limits.RateWindow <= 0 {
		return nil, fmt.Errorf("rate limit config required")
	}
	return &service{
		repo:     repo,
		cartRepo: cartRepo,
		coupons:  couponSvc,
		couponDB: couponDB,
		shipping: shippingSvc,
		tx:       tx,
		outbox:   publisher,
		limiter:  limiter,
		limits:   limits,
	}, nil
}

// Create snapshots the active cart into an immutable order inside one
// transaction: stock reservation, coupon redemption, the order row, its
// first payment transaction, and the outbox record all commit together.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "shipping address incomplete")
	}
	if input.BillingAddress != nil {
		if err := input.BillingAddress.Validate(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "billing address incomplete")
		}
	}

	allowed, _, err := s.limiter.SlidingWindowAllow(
		ctx,
		"orders:create:"+input.UserID.String(),
		int64(s.limits.RateAttempts),
		s.limits.RateWindow,
	)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order rate limit check")
	}
	if !allowed {
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "too many order attempts")
	}

	var created *models.Order
	var createdTx *models.PaymentTransaction

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		record, err := cartRepo.FindActiveByUser(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeEmptyCart, "")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(record.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "")
		}

		items, err := snapshotItems(record.Items)
		if err != nil {
			return err
		}
		subtotal := items.SubtotalCents()

		resolved, err := s.shipping.Resolve(ctx, input.ShippingMethod, input.ShippingAddress.CountryCode, subtotal)
		if err != nil {
			return err
		}
		if input.PaymentMethod == enums.PaymentMethodCashOnDelivery && !resolved.Method.SupportsCashOnDelivery {
			return pkgerrors.New(pkgerrors.CodeValidation, "shipping method does not support cash on delivery")
		}

		for _, item := range items {
			ok, err := repo.ReserveStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "").
					WithDetails(map[string]any{"product_id": item.ProductID, "sku": item.SKU})
			}
		}

		var discount int64
		var couponCode *string
		if record.CouponID != nil {
			evaluation, err := s.coupons.EvaluateByID(ctx, record.Coupon, subtotal)
			if err != nil {
				return err
			}
			if err := s.couponDB.WithTx(tx).Redeem(ctx, *record.CouponID); err != nil {
				if errors.Is(err, coupons.ErrUsageExhausted) {
					return pkgerrors.New(pkgerrors.CodeValidation, "coupon usage limit reached")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem coupon")
			}
			discount = evaluation.DiscountCents
			couponCode = &evaluation.Coupon.Code
		}

		totals := cart.ComputeTotals(subtotal, discount, resolved.CostCents, s.limits.TaxRatePercent)

		now := time.Now()
		number, err := s.uniqueOrderNumber(ctx, repo, now)
		if err != nil {
			return err
		}

		var expiresAt *time.Time
		if input.PaymentMethod != enums.PaymentMethodCashOnDelivery {
			deadline := now.Add(s.limits.PendingOrderTTL)
			expiresAt = &deadline
		}

		order := &models.Order{
			OrderNumber:        number,
			UserID:             input.UserID,
			Status:             enums.OrderStatusPending,
			PaymentStatus:      enums.PaymentStatusPending,
			PaymentMethod:      input.PaymentMethod,
			Currency:           record.Currency,
			Items:              items,
			ShippingAddress:    input.ShippingAddress,
			BillingAddress:     input.BillingAddress,
			ShippingMethodCode: resolved.Method.Code,
			ShippingMethodName: resolved.Method.Name,
			CouponCode:         couponCode,
			CouponID:           record.CouponID,
			SubtotalCents:      totals.SubtotalCents,
			DiscountCents:      totals.DiscountCents,
			TaxCents:           totals.TaxCents,
			ShippingCents:      totals.ShippingCents,
			TotalCents:         totals.TotalCents,
			Notes:              input.Notes,
			ExpiresAt:          expiresAt,
		}
		if err := repo.Create(ctx, order); err != nil {
			// Lost a race on the order number unique index.
			if db.IsUniqueViolation(err, "orders_order_number_key") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order")
		}

		txRecord := &models.PaymentTransaction{
			OrderID:     order.ID,
			Method:      input.PaymentMethod,
			Status:      enums.PaymentStatusPending,
			AmountCents: totals.TotalCents,
			Currency:    record.Currency,
		}
		if err := repo.CreateTransaction(ctx, txRecord); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert payment transaction")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.UserID, Role: "customer"},
			Data: payloads.OrderCreatedEvent{
				OrderID:       order.ID,
				OrderNumber:   order.OrderNumber,
				UserID:        order.UserID,
				PaymentMethod: order.PaymentMethod,
				TotalCents:    order.TotalCents,
				Currency:      order.Currency,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order created")
		}

		created = order
		createdTx = txRecord
		return nil
	})
	if err != nil {
		return nil, err
	}

	created.Transactions = []models.PaymentTransaction{*createdTx}
	return newOrderDTO(created), nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	order, err := s.repo.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return newOrderDTO(order), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, next, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	result := &OrderListResult{
		Orders:     make([]OrderSummaryDTO, 0, len(rows)),
		NextCursor: next,
	}
	for i := range rows {
		result.Orders = append(result.Orders, newOrderSummaryDTO(&rows[i]))
	}
	return result, nil
}

// UpdateStatus moves the fulfillment axis along a legal edge and emits a
// status-changed event. Cancelling an unpaid order returns its stock and
// coupon use.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus, actor *outbox.ActorRef) error {
	if !next.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status == next {
			return nil
		}
		if !order.Status.CanTransitionTo(next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition not allowed").
				WithDetails(map[string]any{"from": order.Status, "to": next})
		}

		ok, err := repo.UpdateStatus(ctx, order.ID, order.Status, next)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
		}

		if next == enums.OrderStatusCancelled && order.PaymentStatus == enums.PaymentStatusPending {
			if err := s.releaseReservations(ctx, repo, tx, order); err != nil {
				return err
			}
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         actor,
			Data: payloads.OrderStatusChangedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				UserID:      order.UserID,
				From:        order.Status,
				To:          next,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit status changed")
		}

		if next == enums.OrderStatusCancelled {
			cancelled := outbox.DomainEvent{
				EventType:     enums.EventOrderCancelled,
				AggregateType: enums.AggregateOrder,
				AggregateID:   order.ID,
				Version:       1,
				Actor:         actor,
				Data: payloads.OrderCancelledEvent{
					OrderID:     order.ID,
					OrderNumber: order.OrderNumber,
					UserID:      order.UserID,
					CancelledAt: time.Now(),
				},
			}
			if err := s.outbox.Emit(ctx, tx, cancelled); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order cancelled")
			}
		}
		return nil
	})
}

// AttachGatewayRef stores the provider redirect and transaction id on the
// order's open payment attempt once a mobile-money flow is initiated.
func (s *service) AttachGatewayRef(ctx context.Context, orderID uuid.UUID, paymentURL, externalRef *string) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	txRecord := latestPendingTransaction(order)
	if txRecord == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order has no open payment attempt")
	}
	txRecord.PaymentURL = paymentURL
	txRecord.ExternalRef = externalRef
	if err := s.repo.UpdateTransaction(ctx, txRecord); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment transaction")
	}
	return nil
}

// MarkPaid settles the payment axis, promotes pending orders to processing,
// and emits order_paid. Settling an already-settled order is a state conflict.
func (s *service) MarkPaid(ctx context.Context, orderID uuid.UUID, externalRef *string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		paidAt := time.Now()
		ok, err := repo.MarkPaid(ctx, order.ID, paidAt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order payment already settled")
		}

		if txRecord := latestPendingTransaction(order); txRecord != nil {
			txRecord.Status = enums.PaymentStatusPaid
			txRecord.SettledAt = &paidAt
			if externalRef != nil {
				txRecord.ExternalRef = externalRef
			}
			if err := repo.UpdateTransaction(ctx, txRecord); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle payment transaction")
			}
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderPaid,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: payloads.OrderPaidEvent{
				OrderID:       order.ID,
				OrderNumber:   order.OrderNumber,
				UserID:        order.UserID,
				PaymentMethod: order.PaymentMethod,
				AmountCents:   order.TotalCents,
				PaidAt:        paidAt,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order paid")
		}
		return nil
	})
}

// MarkPaymentFailed records a terminal gateway failure and emits the
// corresponding event. The order itself stays pending for the expiry sweep.
func (s *service) MarkPaymentFailed(ctx context.Context, orderID uuid.UUID, failureCode string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		ok, err := repo.MarkPaymentFailed(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment failed")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order payment already settled")
		}

		if txRecord := latestPendingTransaction(order); txRecord != nil {
			txRecord.Status = enums.PaymentStatusFailed
			txRecord.FailureCode = &failureCode
			if err := repo.UpdateTransaction(ctx, txRecord); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment transaction")
			}
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderPaymentFailed,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: payloads.OrderPaymentFailedEvent{
				OrderID:       order.ID,
				OrderNumber:   order.OrderNumber,
				UserID:        order.UserID,
				PaymentMethod: order.PaymentMethod,
				FailureCode:   failureCode,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit payment failed")
		}
		return nil
	})
}

// ExpireDue cancels unpaid orders whose deadline passed, returning stock and
// coupon uses, one transaction per order so a failure never blocks the rest.
func (s *service) ExpireDue(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 50
	}
	due, err := s.repo.FindExpiredPending(ctx, time.Now(), batchSize)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find expired orders")
	}

	expired := 0
	for i := range due {
		order := due[i]
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			now := time.Now()

			ok, err := repo.MarkExpired(ctx, order.ID, now)
			if err != nil {
				return err
			}
			if !ok {
				// Payment settled between the scan and this tx.
				return nil
			}

			if err := s.releaseReservations(ctx, repo, tx, &order); err != nil {
				return err
			}

			event := outbox.DomainEvent{
				EventType:     enums.EventOrderExpired,
				AggregateType: enums.AggregateOrder,
				AggregateID:   order.ID,
				Version:       1,
				Data: payloads.OrderExpiredEvent{
					OrderID:     order.ID,
					OrderNumber: order.OrderNumber,
					UserID:      order.UserID,
					ExpiredAt:   now,
				},
			}
			// A sweep retried after a partial failure must not queue the
			// expiry event twice for the same order.
			if err := s.outbox.EmitIfNotExists(ctx, tx, event); err != nil {
				return err
			}
			expired++
			return nil
		})
		if err != nil {
			return expired, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire order")
		}
	}
	return expired, nil
}

func (s *service) releaseReservations(ctx context.Context, repo *Repository, tx *gorm.DB, order *models.Order) error {
	for _, item := range order.Items {
		if err := repo.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
		}
	}
	if order.CouponID != nil {
		if err := s.couponDB.WithTx(tx).Release(ctx, *order.CouponID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release coupon")
		}
	}
	return nil
}

func (s *service) uniqueOrderNumber(ctx context.Context, repo *Repository, now time.Time) (string, error) {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		number := NewOrderNumber(now)
		taken, err := repo.NumberExists(ctx, number)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order number")
		}
		if !taken {
			return number, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeDependency, "could not allocate order number")
}

func snapshotItems(items []models.CartItem) (types.OrderItems, error) {
	snapshot := make(types.OrderItems, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart line has no quantity")
		}
		if item.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart line product missing")
		}
		// Name and image come from the add-time snapshot on the line, not
		// the live product row.
		title := item.ProductName
		if title == "" {
			title = item.Product.Title
		}
		imageURL := item.ProductImage
		if imageURL == nil && len(item.Product.ImageURLs) > 0 {
			imageURL = &item.Product.ImageURLs[0]
		}
		snapshot = append(snapshot, types.OrderItem{
			ProductID:       item.ProductID,
			SKU:             item.Product.SKU,
			Title:           title,
			ImageURL:        imageURL,
			SelectedVariant: item.SelectedVariant,
			Quantity:        item.Quantity,
			UnitPriceCents:  item.UnitPriceCents,
			LineTotalCents:  int64(item.Quantity) * item.UnitPriceCents,
		})
	}
	return snapshot, nil
}

func latestPendingTransaction(order *models.Order) *models.PaymentTransaction {
	for i := len(order.Transactions) - 1; i >= 0; i-- {
		if order.Transactions[i].Status == enums.PaymentStatusPending {
			return &order.Transactions[i]
		}
	}
	return nil
}
