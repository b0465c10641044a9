package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shoplux/shoplux-backend/api/controllers"
	"github.com/shoplux/shoplux-backend/api/middleware"
	"github.com/shoplux/shoplux-backend/internal/address"
	"github.com/shoplux/shoplux-backend/internal/cart"
	checkoutsvc "github.com/shoplux/shoplux-backend/internal/checkout"
	"github.com/shoplux/shoplux-backend/internal/notifications"
	"github.com/shoplux/shoplux-backend/internal/orders"
	products "github.com/shoplux/shoplux-backend/internal/products"
	"github.com/shoplux/shoplux-backend/internal/reviews"
	"github.com/shoplux/shoplux-backend/internal/shipping"
	"github.com/shoplux/shoplux-backend/internal/support"
	"github.com/shoplux/shoplux-backend/internal/wishlist"
	"github.com/shoplux/shoplux-backend/pkg/config"
	"github.com/shoplux/shoplux-backend/pkg/db"
	"github.com/shoplux/shoplux-backend/pkg/logger"
	"github.com/shoplux/shoplux-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	productService products.Service,
	shippingService shipping.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	addressService address.Service,
	notificationsService notifications.Service,
	wishlistService wishlist.Service,
	reviewsService reviews.Service,
	supportService support.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// Keep a nil client nil after the interface conversion.
	var (
		idemStore redis.IdempotencyStore
		redisPing db.Pinger
	)
	if redisClient != nil {
		idemStore = redisClient
		redisPing = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPing))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	// Public catalog surface, no credential required.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(productService, logg))
		r.Get("/{idOrSlug}/reviews", controllers.ReviewsList(reviewsService, logg))
		r.Get("/{idOrSlug}", controllers.ProductsGet(productService, logg))
	})
	r.Get("/api/v1/shipping-methods", controllers.ShippingMethodsList(shippingService, cfg.Checkout.DefaultCountry, logg))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{productID}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(cartService, logg))
			r.Post("/coupon", controllers.CartApplyCoupon(cartService, logg))
			r.Delete("/coupon", controllers.CartRemoveCoupon(cartService, logg))
		})

		r.Route("/v1/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutGet(checkoutService, logg))
			r.Patch("/", controllers.CheckoutUpdate(checkoutService, logg))
			r.Post("/next", controllers.CheckoutNextStep(checkoutService, logg))
			r.Post("/previous", controllers.CheckoutPreviousStep(checkoutService, logg))
			r.Post("/place-order", controllers.CheckoutPlaceOrder(checkoutService, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(ordersService, logg))
			r.Get("/{orderID}", controllers.OrdersGet(ordersService, logg))
			r.Post("/{orderID}/cancel", controllers.OrdersCancel(ordersService, logg))
		})

		r.Route("/v1/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(addressService, logg))
			r.Post("/", controllers.AddressCreate(addressService, logg))
			r.Put("/{addressID}", controllers.AddressUpdate(addressService, logg))
			r.Delete("/{addressID}", controllers.AddressDelete(addressService, logg))
			r.Post("/{addressID}/default", controllers.AddressSetDefault(addressService, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationsList(notificationsService, logg))
			r.Get("/unread-count", controllers.NotificationsUnreadCount(notificationsService, logg))
			r.Post("/{notificationID}/read", controllers.NotificationsMarkRead(notificationsService, logg))
			r.Post("/read-all", controllers.NotificationsMarkAllRead(notificationsService, logg))
		})

		r.Route("/v1/reviews", func(r chi.Router) {
			r.Post("/", controllers.ReviewSubmit(reviewsService, logg))
			r.Delete("/{reviewID}", controllers.ReviewDelete(reviewsService, logg))
		})

		r.Route("/v1/support", func(r chi.Router) {
			r.Get("/", controllers.SupportList(supportService, logg))
			r.Post("/", controllers.SupportCreate(supportService, logg))
			r.Get("/{ticketID}", controllers.SupportGet(supportService, logg))
			r.Post("/{ticketID}/messages", controllers.SupportAddMessage(supportService, logg))
			r.Post("/{ticketID}/close", controllers.SupportClose(supportService, logg))
		})

		r.Route("/v1/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistGet(wishlistService, logg))
			r.Get("/ids", controllers.WishlistIDs(wishlistService, logg))
			r.Post("/", controllers.WishlistAdd(wishlistService, logg))
			r.Delete("/{productID}", controllers.WishlistRemove(wishlistService, logg))
		})

		r.Route("/v1/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Patch("/orders/{orderID}/status", controllers.AdminOrderUpdateStatus(ordersService, logg))
			r.Post("/support/{ticketID}/reply", controllers.AdminSupportReply(supportService, logg))
			r.Patch("/support/{ticketID}/status", controllers.AdminSupportUpdateStatus(supportService, logg))
		})
	})

	return r
}
