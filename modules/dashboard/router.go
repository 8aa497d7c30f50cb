package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tradeguard/dashkit/pkg/billing"
	"github.com/tradeguard/dashkit/pkg/identity"
	"github.com/tradeguard/dashkit/pkg/kyc"
	"github.com/tradeguard/dashkit/pkg/logger"
	"github.com/tradeguard/dashkit/pkg/notifications"
)

// Config wires the module's collaborators. Store, Reconciler and Views are
// required; everything else mounts only when provided.
type Config struct {
	Store      *notifications.Store
	Reconciler *notifications.Reconciler
	Views      *notifications.Views

	// Verifier guards the routes with bearer-token auth when set.
	Verifier *identity.Verifier

	// Billing enables POST /billing/checkout.
	Billing         billing.Provider
	CheckoutPriceID string
	SuccessURL      string

	// KYC enables POST /kyc/documents.
	KYC *kyc.Service

	Logger *slog.Logger
}

// Router builds the dashboard API router.
func Router(cfg Config) chi.Router {
	if cfg.Store == nil || cfg.Reconciler == nil || cfg.Views == nil {
		panic("dashboard: Store, Reconciler and Views are required")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default().With(logger.Component("modules.dashboard"))
	}

	h := &handlers{
		store:      cfg.Store,
		rec:        cfg.Reconciler,
		views:      cfg.Views,
		billing:    cfg.Billing,
		priceID:    cfg.CheckoutPriceID,
		successURL: cfg.SuccessURL,
		kyc:        cfg.KYC,
		log:        log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Verifier != nil {
		r.Use(identity.Middleware(cfg.Verifier))
	}

	r.Route("/notifications", func(n chi.Router) {
		n.Get("/", h.listNotifications)
		n.Delete("/", h.clearAll)
		n.Post("/refresh", h.refresh)
		n.Post("/read-all", h.markAllAsRead)
		n.Get("/unread-count", h.unreadCount)
		n.Get("/stream", h.stream)

		n.Route("/views", func(v chi.Router) {
			v.Get("/grouped", h.viewGrouped)
			v.Get("/recent", h.viewRecent)
			v.Get("/unread", h.viewUnread)
			v.Get("/priority", h.viewPriority)
		})

		n.Post("/{id}/read", h.markAsRead)
		n.Delete("/{id}", h.deleteNotification)
	})

	r.Route("/toasts", func(t chi.Router) {
		t.Get("/", h.listToasts)
		t.Delete("/{id}", h.dismissToast)
	})

	r.Post("/push-permission", h.enablePushAlerts)

	if cfg.Billing != nil {
		r.Post("/billing/checkout", h.createCheckout)
	}
	if cfg.KYC != nil {
		r.Post("/kyc/documents", h.submitDocument)
	}

	return r
}
