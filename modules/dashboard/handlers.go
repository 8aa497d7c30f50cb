package dashboard

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tradeguard/dashkit/pkg/billing"
	"github.com/tradeguard/dashkit/pkg/identity"
	"github.com/tradeguard/dashkit/pkg/kyc"
	"github.com/tradeguard/dashkit/pkg/logger"
	"github.com/tradeguard/dashkit/pkg/notifications"
)

type handlers struct {
	store      *notifications.Store
	rec        *notifications.Reconciler
	views      *notifications.Views
	billing    billing.Provider
	priceID    string
	successURL string
	kyc        *kyc.Service
	log        *slog.Logger
}

// collectionResponse is the dashboard's main payload: the collection plus
// the state the badge and spinners render from.
type collectionResponse struct {
	Notifications []notifications.Notification `json:"notifications"`
	UnreadCount   int                          `json:"unread_count"`
	Total         int                          `json:"total"`
	Loading       bool                         `json:"loading"`
	Error         string                       `json:"error,omitempty"`
	Version       uint64                       `json:"version"`
}

func (h *handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	resp := collectionResponse{
		Notifications: h.store.All(),
		UnreadCount:   h.store.UnreadCount(),
		Total:         h.store.Total(),
		Loading:       h.store.Loading(),
		Version:       h.store.Version(),
	}
	if err := h.store.Err(); err != nil {
		resp.Error = err.Error()
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *handlers) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.rec.Refresh(r.Context()); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.listNotifications(w, r)
}

func (h *handlers) markAsRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.rec.MarkAsRead(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"unread_count": h.store.UnreadCount()})
}

func (h *handlers) markAllAsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.rec.MarkAllAsRead(r.Context()); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"unread_count": h.store.UnreadCount()})
}

func (h *handlers) deleteNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.rec.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) clearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.rec.ClearAll(r.Context()); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) unreadCount(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]int{"unread_count": h.store.UnreadCount()})
}

func (h *handlers) viewGrouped(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.views.GroupByKind())
}

func (h *handlers) viewRecent(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.views.Recent())
}

func (h *handlers) viewUnread(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.views.Unread())
}

func (h *handlers) viewPriority(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.views.ByPriority())
}

func (h *handlers) listToasts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Toasts().Active())
}

func (h *handlers) dismissToast(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.store.Toasts().Dismiss(id) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "toast not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) enablePushAlerts(w http.ResponseWriter, r *http.Request) {
	// Outcome arrives as a toast; the request itself just kicks it off.
	h.rec.EnablePushAlerts(r.Context())
	w.WriteHeader(http.StatusAccepted)
}

func (h *handlers) createCheckout(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.CurrentUser(r.Context())
	if !ok {
		user = identity.User{ID: h.store.User()}
	}

	checkout, err := h.billing.CreateCheckout(r.Context(), billing.CheckoutRequest{
		PriceID:    h.priceID,
		CustomerID: user.ID,
		Email:      user.Email,
		SuccessURL: h.successURL,
	})
	if err != nil {
		h.log.ErrorContext(r.Context(), "checkout failed", logger.UserID(user.ID), logger.Error(err))
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: "checkout unavailable"})
		return
	}
	respondJSON(w, http.StatusCreated, checkout)
}

func (h *handlers) submitDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.CurrentUser(r.Context())
	if !ok {
		user = identity.User{ID: h.store.User()}
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "document file is required"})
		return
	}
	defer file.Close()

	docType := kyc.DocumentType(r.FormValue("type"))
	contentType := header.Header.Get("Content-Type")

	sub, err := h.kyc.Submit(r.Context(), user.ID, docType, contentType, file)
	if err != nil {
		switch {
		case errors.Is(err, kyc.ErrUnsupportedDocument),
			errors.Is(err, kyc.ErrUnsupportedContentType),
			errors.Is(err, kyc.ErrEmptyDocument):
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, kyc.ErrDocumentTooLarge):
			respondJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
		default:
			h.log.ErrorContext(r.Context(), "document submission failed", logger.UserID(user.ID), logger.Error(err))
			respondJSON(w, http.StatusBadGateway, errorResponse{Error: "document upload failed"})
		}
		return
	}
	respondJSON(w, http.StatusCreated, sub)
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps the notification error taxonomy onto HTTP statuses. By
// the time it runs any optimistic change has already been rolled back.
func (h *handlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, notifications.ErrNetwork):
		status = http.StatusBadGateway
	case errors.Is(err, notifications.ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(err, notifications.ErrNotFound):
		status = http.StatusNotFound
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
