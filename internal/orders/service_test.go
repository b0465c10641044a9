package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/internal/cart"
	"github.com/shoplux/shoplux-backend/internal/coupons"
	"github.com/shoplux/shoplux-backend/internal/shipping"
	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/outbox"
)

type passthroughTx struct {
	db *gorm.DB
}

func (p *passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(p.db)
}

type recordingOutbox struct {
	events []outbox.DomainEvent
}

func (r *recordingOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *recordingOutbox) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	for _, queued := range r.events {
		if queued.EventType == event.EventType && queued.AggregateID == event.AggregateID {
			return nil
		}
	}
	return r.Emit(ctx, tx, event)
}

func (r *recordingOutbox) has(eventType enums.OutboxEventType) bool {
	for _, event := range r.events {
		if event.EventType == eventType {
			return true
		}
	}
	return false
}

type stubLimiter struct {
	allow bool
}

func (s *stubLimiter) SlidingWindowAllow(_ context.Context, _ string, _ int64, _ time.Duration) (bool, int64, error) {
	return s.allow, 0, nil
}

type orderTestEnv struct {
	svc      Service
	outbox   *recordingOutbox
	limiter  *stubLimiter
	cartRepo *cart.Repository
}

func newOrderTestEnv(t *testing.T, tx *gorm.DB) *orderTestEnv {
	t.Helper()

	couponRepo := coupons.NewRepository(tx)
	couponSvc, err := coupons.NewService(couponRepo)
	if err != nil {
		t.Fatalf("coupon service: %v", err)
	}
	shippingSvc, err := shipping.NewService(shipping.NewRepository(tx))
	if err != nil {
		t.Fatalf("shipping service: %v", err)
	}

	sink := &recordingOutbox{}
	limiter := &stubLimiter{allow: true}
	cartRepo := cart.NewRepository(tx)

	svc, err := NewService(
		NewRepository(tx),
		cartRepo,
		couponSvc,
		couponRepo,
		shippingSvc,
		&passthroughTx{db: tx},
		sink,
		limiter,
		Limits{
			RateWindow:      time.Minute,
			RateAttempts:    5,
			TaxRatePercent:  20,
			PendingOrderTTL: 48 * time.Hour,
		},
	)
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}
	return &orderTestEnv{svc: svc, outbox: sink, limiter: limiter, cartRepo: cartRepo}
}

func mustCreateShippingMethod(t *testing.T, tx *gorm.DB, code string, priceCents int64, cod bool) {
	t.Helper()

	if err := tx.Create(&models.ShippingMethod{
		Code:                   code,
		Name:                   "Method " + code,
		PriceCents:             priceCents,
		Countries:              []string{"SN"},
		SupportsCashOnDelivery: cod,
		IsActive:               true,
	}).Error; err != nil {
		t.Fatalf("create shipping method: %v", err)
	}
}

func mustFillCart(t *testing.T, tx *gorm.DB, cartRepo *cart.Repository, userID uuid.UUID, product *models.Product, qty int) {
	t.Helper()

	record, err := cartRepo.FindOrCreateActive(context.Background(), userID)
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if err := cartRepo.SaveItem(context.Background(), &models.CartItem{
		CartID:         record.ID,
		ProductID:      product.ID,
		ProductName:    product.Title,
		Quantity:       qty,
		UnitPriceCents: product.PriceCents,
	}); err != nil {
		t.Fatalf("fill cart: %v", err)
	}
}

func TestCreateOrderCashOnDelivery(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	env := newOrderTestEnv(t, tx)
	userID := uuid.New()
	product := mustCreateOrderProduct(t, tx, 5)
	mustCreateShippingMethod(t, tx, "standard", 2500, true)
	mustFillCart(t, tx, env.cartRepo, userID, product, 2)

	dto, err := env.svc.Create(context.Background(), CreateOrderInput{
		UserID:          userID,
		PaymentMethod:   enums.PaymentMethodCashOnDelivery,
		ShippingMethod:  "standard",
		ShippingAddress: testAddress(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if dto.SubtotalCents != 20000 {
		t.Fatalf("expected subtotal 20000, got %d", dto.SubtotalCents)
	}
	// tax at 20 percent of 20000 plus shipping 2500
	if dto.TotalCents != 26500 {
		t.Fatalf("expected total 26500, got %d", dto.TotalCents)
	}
	if dto.Status != enums.OrderStatusPending.String() {
		t.Fatalf("expected pending order, got %s", dto.Status)
	}
	if len(dto.OrderNumber) != 12 {
		t.Fatalf("unexpected order number %q", dto.OrderNumber)
	}
	if !env.outbox.has(enums.EventOrderCreated) {
		t.Fatalf("expected order_created event")
	}

	// Stock reserved.
	var inv models.InventoryItem
	if err := tx.First(&inv, "product_id = ?", product.ID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if inv.AvailableQty != 3 || inv.ReservedQty != 2 {
		t.Fatalf("expected available=3 reserved=2, got %d/%d", inv.AvailableQty, inv.ReservedQty)
	}

	// COD does not carry an expiry deadline.
	var stored models.Order
	if err := tx.First(&stored, "id = ?", dto.ID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if stored.ExpiresAt != nil {
		t.Fatalf("expected no expiry for cash on delivery")
	}

	// The cart is left alone; the orchestrator clears it after payment.
	record, err := env.cartRepo.FindActiveByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("reload cart: %v", err)
	}
	if len(record.Items) != 1 {
		t.Fatalf("expected cart untouched, got %d items", len(record.Items))
	}
}

func TestCreateOrderSnapshotsVariantAndName(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	env := newOrderTestEnv(t, tx)
	userID := uuid.New()
	product := mustCreateOrderProduct(t, tx, 5)
	mustCreateShippingMethod(t, tx, "standard", 2500, true)

	record, err := env.cartRepo.FindOrCreateActive(context.Background(), userID)
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	variant := "taille-m"
	if err := env.cartRepo.SaveItem(context.Background(), &models.CartItem{
		CartID:          record.ID,
		ProductID:       product.ID,
		ProductName:     product.Title,
		SelectedVariant: &variant,
		Quantity:        1,
		UnitPriceCents:  product.PriceCents,
	}); err != nil {
		t.Fatalf("fill cart: %v", err)
	}

	dto, err := env.svc.Create(context.Background(), CreateOrderInput{
		UserID:          userID,
		PaymentMethod:   enums.PaymentMethodCashOnDelivery,
		ShippingMethod:  "standard",
		ShippingAddress: testAddress(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	var stored models.Order
	if err := tx.First(&stored, "id = ?", dto.ID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if len(stored.Items) != 1 {
		t.Fatalf("expected one snapshotted item, got %d", len(stored.Items))
	}
	line := stored.Items[0]
	if line.SelectedVariant == nil || *line.SelectedVariant != variant {
		t.Fatalf("expected snapshot variant %q, got %+v", variant, line.SelectedVariant)
	}
	if line.Title != product.Title {
		t.Fatalf("expected snapshot title %q, got %q", product.Title, line.Title)
	}
}

func TestCreateOrderMobileMoneyGetsExpiry(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	env := newOrderTestEnv(t, tx)
	userID := uuid.New()
	product := mustCreateOrderProduct(t, tx, 5)
	mustCreateShippingMethod(t, tx, "standard", 2500, true)
	mustFillCart(t, tx, env.cartRepo, userID, product, 1)

	dto, err := env.svc.Create(context.Background(), CreateOrderInput{
		UserID:          userID,
		PaymentMethod:   enums.PaymentMethodWave,
		ShippingMethod:  "standard",
		ShippingAddress: testAddress(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	var stored models.Order
	if err := tx.First(&stored, "id = ?", dto.ID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if stored.ExpiresAt == nil {
		t.Fatalf("expected expiry deadline for mobile money order")
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	env := newOrderTestEnv(t, tx)
	mustCreateShippingMethod(t, tx, "standard", 2500, true)

	_, err := env.svc.Create(context.Background(), CreateOrderInput{
		UserID:          uuid.New(),
		PaymentMethod:   enums.PaymentMethodCashOnDelivery,
		ShippingMethod:  "standard",
		ShippingAddress: testAddress(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeEmptyCart {
		t.Fatalf("expected EMPTY_CART, got %v", err)
	}
}

func TestCreateOrderRateLimited(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	env := newOrderTestEnv(t, tx)
	env.limiter.allow = false

	_, err := env.svc.Create(context.Background(), CreateOrderInput{
		UserID:          uuid.New(),
		PaymentMethod:   enums.PaymentMethodCashOnDelivery,
		ShippingMethod:  "standard",
		ShippingAddress: testAddress(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeRateLimit {
		t.Fatalf("expected RATE_LIMIT_EXCEEDED, got %v", err)
	}
}

func TestCreateOrderInsufficientStockLeavesCart(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	env := newOrderTestEnv(t, tx)
	userID := uuid.New()
	product := mustCreateOrderProduct(t, tx, 1)
	mustCreateShippingMethod(t, tx, "standard", 2500, true)
	mustFillCart(t, tx, env.cartRepo, userID, product, 3)

	_, err := env.svc.Create(context.Background(), CreateOrderInput{
		UserID:          userID,
		PaymentMethod:   enums.PaymentMethodCashOnDelivery,
		ShippingMethod:  "standard",
		ShippingAddress: testAddress(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %v", err)
	}

	record, err := env.cartRepo.FindActiveByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("reload cart: %v", err)
	}
	if len(record.Items) != 1 || record.Items[0].Quantity != 3 {
		t.Fatalf("expected cart untouched after failed order")
	}
}

func TestCreateOrderUnknownShippingMethodFailsClosed(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	env := newOrderTestEnv(t, tx)
	userID := uuid.New()
	product := mustCreateOrderProduct(t, tx, 5)
	mustFillCart(t, tx, env.cartRepo, userID, product, 1)

	_, err := env.svc.Create(context.Background(), CreateOrderInput{
		UserID:          userID,
		PaymentMethod:   enums.PaymentMethodCashOnDelivery,
		ShippingMethod:  "does-not-exist",
		ShippingAddress: testAddress(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCreateOrderRedeemsCoupon(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	env := newOrderTestEnv(t, tx)
	userID := uuid.New()
	product := mustCreateOrderProduct(t, tx, 5)
	mustCreateShippingMethod(t, tx, "standard", 0, true)

	limit := 2
	coupon := &models.Coupon{
		Code:       "SAVE10",
		Type:       enums.CouponTypePercentage,
		Value:      10,
		UsageLimit: &limit,
		IsActive:   true,
	}
	if err := tx.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon: %v", err)
	}

	mustFillCart(t, tx, env.cartRepo, userID, product, 1)
	record, err := env.cartRepo.FindActiveByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("load cart: %v", err)
	}
	if err := env.cartRepo.SetCoupon(context.Background(), record.ID, &coupon.ID); err != nil {
		t.Fatalf("set coupon: %v", err)
	}

	dto, err := env.svc.Create(context.Background(), CreateOrderInput{
		UserID:          userID,
		PaymentMethod:   enums.PaymentMethodCashOnDelivery,
		ShippingMethod:  "standard",
		ShippingAddress: testAddress(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if dto.DiscountCents != 1000 {
		t.Fatalf("expected discount 1000, got %d", dto.DiscountCents)
	}
	if dto.CouponCode == nil || *dto.CouponCode != "SAVE10" {
		t.Fatalf("expected coupon code on order")
	}

	var reloaded models.Coupon
	if err := tx.First(&reloaded, "id = ?", coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("expected used_count 1, got %d", reloaded.UsedCount)
	}
}

func TestUpdateStatusRejectsIllegalEdge(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	env := newOrderTestEnv(t, tx)
	product := mustCreateOrderProduct(t, tx, 5)
	order := mustCreateOrder(t, tx, product, 1)

	err := env.svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusDelivered, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT for pending->delivered, got %v", err)
	}

	if err := env.svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusProcessing, nil); err != nil {
		t.Fatalf("pending->processing should be allowed: %v", err)
	}
	if !env.outbox.has(enums.EventOrderStatusChanged) {
		t.Fatalf("expected order_status_changed event")
	}
}

func TestCancelUnpaidOrderRestoresStock(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	env := newOrderTestEnv(t, tx)
	userID := uuid.New()
	product := mustCreateOrderProduct(t, tx, 5)
	mustCreateShippingMethod(t, tx, "standard", 0, true)
	mustFillCart(t, tx, env.cartRepo, userID, product, 2)

	dto, err := env.svc.Create(context.Background(), CreateOrderInput{
		UserID:          userID,
		PaymentMethod:   enums.PaymentMethodCashOnDelivery,
		ShippingMethod:  "standard",
		ShippingAddress: testAddress(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := env.svc.UpdateStatus(context.Background(), dto.ID, enums.OrderStatusCancelled, nil); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	var inv models.InventoryItem
	if err := tx.First(&inv, "product_id = ?", product.ID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if inv.AvailableQty != 5 || inv.ReservedQty != 0 {
		t.Fatalf("expected stock restored to 5/0, got %d/%d", inv.AvailableQty, inv.ReservedQty)
	}
	if !env.outbox.has(enums.EventOrderCancelled) {
		t.Fatalf("expected order_cancelled event")
	}
}

func TestExpireDueRestoresStockAndEmits(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	env := newOrderTestEnv(t, tx)
	userID := uuid.New()
	product := mustCreateOrderProduct(t, tx, 5)
	mustCreateShippingMethod(t, tx, "standard", 0, true)
	mustFillCart(t, tx, env.cartRepo, userID, product, 2)

	dto, err := env.svc.Create(context.Background(), CreateOrderInput{
		UserID:          userID,
		PaymentMethod:   enums.PaymentMethodWave,
		ShippingMethod:  "standard",
		ShippingAddress: testAddress(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	past := time.Now().Add(-time.Hour)
	if err := tx.Model(&models.Order{}).Where("id = ?", dto.ID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate expiry: %v", err)
	}

	count, err := env.svc.ExpireDue(context.Background(), 10)
	if err != nil {
		t.Fatalf("expire due: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 expired order, got %d", count)
	}

	var inv models.InventoryItem
	if err := tx.First(&inv, "product_id = ?", product.ID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if inv.AvailableQty != 5 || inv.ReservedQty != 0 {
		t.Fatalf("expected stock restored, got %d/%d", inv.AvailableQty, inv.ReservedQty)
	}
	if !env.outbox.has(enums.EventOrderExpired) {
		t.Fatalf("expected order_expired event")
	}
}
