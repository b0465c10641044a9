package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/internal/orders"
	"github.com/shoplux/shoplux-backend/internal/payments"
	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/logger"
	"github.com/shoplux/shoplux-backend/pkg/metrics"
	"github.com/shoplux/shoplux-backend/pkg/types"
)

type sessionStore interface {
	Load(ctx context.Context, userID uuid.UUID) (*Session, error)
	Save(ctx context.Context, userID uuid.UUID, session *Session) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type paymentDispatcher interface {
	Dispatch(ctx context.Context, method enums.PaymentMethod, req payments.Request) (*payments.Result, error)
}

type cartConverter interface {
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
	MarkConverted(ctx context.Context, cartID uuid.UUID) error
}

type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string) error
}

type mailer interface {
	SendOrderConfirmation(ctx context.Context, toEmail string, order *orders.OrderDTO) error
}

type addressSaver interface {
	SaveDefaultFromSnapshot(ctx context.Context, userID uuid.UUID, snapshot types.PostalAddress) error
}

// UpdateInput applies partial edits to the checkout session. Nil fields are
// left untouched.
type UpdateInput struct {
	Email                 *string
	Phone                 *string
	ShippingAddress       *types.PostalAddress
	BillingSameAsShipping *bool
	BillingAddress        *types.PostalAddress
	SaveAddressAsDefault  *bool
	ShippingMethodCode    *string
	PaymentMethod         *enums.PaymentMethod
	PayerPhone            *string
	Notes                 *string
	TermsAccepted         *bool
}

// PlaceOrderResult tells the client where checkout landed: straight to the
// order page, or out to a mobile-money approval first.
type PlaceOrderResult struct {
	OrderID                uuid.UUID `json:"order_id"`
	OrderNumber            string    `json:"order_number"`
	RequiresExternalAction bool      `json:"requires_external_action"`
	PaymentURL             *string   `json:"payment_url,omitempty"`
}

// Service drives the three-step checkout and the final order placement.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*Session, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*Session, error)
	NextStep(ctx context.Context, userID uuid.UUID) (*Session, error)
	PreviousStep(ctx context.Context, userID uuid.UUID) (*Session, error)
	PlaceOrder(ctx context.Context, userID uuid.UUID) (*PlaceOrderResult, error)
}

type service struct {
	sessions   sessionStore
	orders     orders.Service
	dispatcher paymentDispatcher
	carts      cartConverter
	notify     notifier
	mail       mailer
	addresses  addressSaver
	logg       *logger.Logger
	outcomes   *metrics.CheckoutMetrics
}

// NewService wires the checkout orchestrator. The metrics handle may be nil;
// outcome counters are then no-ops.
func NewService(
	sessions sessionStore,
	ordersSvc orders.Service,
	dispatcher paymentDispatcher,
	carts cartConverter,
	notify notifier,
	mail mailer,
	addresses addressSaver,
	logg *logger.Logger,
	outcomes *metrics.CheckoutMetrics,
) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if ordersSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("payment dispatcher required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if mail == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address saver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		sessions:   sessions,
		orders:     ordersSvc,
		dispatcher: dispatcher,
		carts:      carts,
		notify:     notify,
		mail:       mail,
		addresses:  addresses,
		logg:       logg,
		outcomes:   outcomes,
	}, nil
}

// Get returns the user's checkout session, starting one on first access.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Session, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	session, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
	}
	if session == nil {
		session = NewSession()
		if err := s.sessions.Save(ctx, userID, session); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start checkout session")
		}
	}
	return session, nil
}

// Update merges the edits into the session without advancing the step.
func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*Session, error) {
	session, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		session.Email = *input.Email
	}
	if input.Phone != nil {
		session.Phone = *input.Phone
	}
	if input.ShippingAddress != nil {
		session.ShippingAddress = input.ShippingAddress
	}
	if input.BillingSameAsShipping != nil {
		session.BillingSameAsShipping = *input.BillingSameAsShipping
	}
	if input.BillingAddress != nil {
		session.BillingAddress = input.BillingAddress
	}
	if input.SaveAddressAsDefault != nil {
		session.SaveAddressAsDefault = *input.SaveAddressAsDefault
	}
	if input.ShippingMethodCode != nil {
		session.ShippingMethodCode = *input.ShippingMethodCode
	}
	if input.PaymentMethod != nil {
		if !input.PaymentMethod.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
		}
		session.PaymentMethod = input.PaymentMethod
	}
	if input.PayerPhone != nil {
		session.PayerPhone = input.PayerPhone
	}
	if input.Notes != nil {
		session.Notes = input.Notes
	}
	if input.TermsAccepted != nil {
		session.TermsAccepted = *input.TermsAccepted
	}

	if err := s.sessions.Save(ctx, userID, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}
	return session, nil
}

// NextStep validates the current step before advancing.
func (s *service) NextStep(ctx context.Context, userID uuid.UUID) (*Session, error) {
	session, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch session.Step {
	case StepAddress:
		if err := session.validateAddressStep(); err != nil {
			return nil, err
		}
		session.Step = StepDelivery
	case StepDelivery:
		if err := session.validateDeliveryStep(); err != nil {
			return nil, err
		}
		session.Step = StepReview
	case StepReview:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "already at the review step")
	default:
		session.Step = StepAddress
	}

	if err := s.sessions.Save(ctx, userID, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}
	return session, nil
}

// PreviousStep always moves back without re-validation.
func (s *service) PreviousStep(ctx context.Context, userID uuid.UUID) (*Session, error) {
	session, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.Step > StepAddress {
		session.Step--
		if err := s.sessions.Save(ctx, userID, session); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
		}
	}
	return session, nil
}

// PlaceOrder submits the checkout: assemble the order, collect payment, then
// run the confirmation side effects in a fixed sequence. Notification, email,
// and address persistence failures are logged and never fail the order.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID) (*PlaceOrderResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	session, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
	}
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout has not been started")
	}
	if err := session.validateForPlaceOrder(); err != nil {
		s.countFailure(err)
		return nil, err
	}

	order, err := s.orders.Create(ctx, orders.CreateOrderInput{
		UserID:          userID,
		PaymentMethod:   *session.PaymentMethod,
		ShippingMethod:  session.ShippingMethodCode,
		ShippingAddress: *session.ShippingAddress,
		BillingAddress:  session.billingSnapshot(),
		Notes:           session.Notes,
	})
	if err != nil {
		s.countFailure(err)
		return nil, err
	}

	result, err := s.dispatcher.Dispatch(ctx, *session.PaymentMethod, payments.Request{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      userID,
		AmountCents: order.TotalCents,
		Currency:    enums.Currency(order.Currency),
		PayerPhone:  session.PayerPhone,
	})
	if err != nil {
		// The pending order survives; the expiry sweep reclaims it if the
		// buyer never retries.
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodePaymentFailed {
			if markErr := s.orders.MarkPaymentFailed(ctx, order.ID, "gateway_error"); markErr != nil {
				s.logg.Error(ctx, "record payment failure", markErr)
			}
		}
		s.countFailure(err)
		return nil, err
	}
	s.outcomes.IncPlaced(session.PaymentMethod.String())

	placed := &PlaceOrderResult{
		OrderID:                order.ID,
		OrderNumber:            order.OrderNumber,
		RequiresExternalAction: result.RequiresExternalAction,
		PaymentURL:             result.PaymentURL,
	}

	if result.RequiresExternalAction {
		if err := s.orders.AttachGatewayRef(ctx, order.ID, result.PaymentURL, result.ExternalRef); err != nil {
			s.logg.Error(ctx, "attach gateway reference", err)
		}
		s.notifyQuietly(ctx, userID, enums.NotificationTypeOrder,
			"Payment pending",
			fmt.Sprintf("Confirm the payment on your phone to complete order %s.", order.OrderNumber))
		s.persistAddressQuietly(ctx, userID, session)
		// The cart stays live until the gateway confirms payment.
	} else {
		if err := s.mail.SendOrderConfirmation(ctx, session.Email, order); err != nil {
			s.logg.Error(ctx, "send order confirmation", err)
		}
		s.notifyQuietly(ctx, userID, enums.NotificationTypeOrder,
			"Order confirmed",
			fmt.Sprintf("Your order %s has been placed.", order.OrderNumber))
		s.persistAddressQuietly(ctx, userID, session)
		s.convertCartQuietly(ctx, userID)
	}

	if err := s.sessions.Delete(ctx, userID); err != nil {
		s.logg.Error(ctx, "delete checkout session", err)
	}
	return placed, nil
}

func (s *service) countFailure(err error) {
	code := pkgerrors.CodeInternal
	if typed := pkgerrors.As(err); typed != nil {
		code = typed.Code()
	}
	s.outcomes.IncFailed(string(code))
}

func (s *service) notifyQuietly(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string) {
	if err := s.notify.Notify(ctx, userID, kind, title, message); err != nil {
		s.logg.Error(ctx, "create notification", err)
	}
}

func (s *service) persistAddressQuietly(ctx context.Context, userID uuid.UUID, session *Session) {
	if !session.SaveAddressAsDefault || session.ShippingAddress == nil {
		return
	}
	if err := s.addresses.SaveDefaultFromSnapshot(ctx, userID, *session.ShippingAddress); err != nil {
		s.logg.Error(ctx, "save default address", err)
	}
}

func (s *service) convertCartQuietly(ctx context.Context, userID uuid.UUID) {
	record, err := s.carts.FindActiveByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Error(ctx, "load cart for conversion", err)
		}
		return
	}
	if err := s.carts.MarkConverted(ctx, record.ID); err != nil {
		s.logg.Error(ctx, "convert cart", err)
	}
}
