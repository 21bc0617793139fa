package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
	"github.com/gigbook/herald/pkg/usecase"
	"github.com/gigbook/herald/pkg/utils/errutil"
	"github.com/gigbook/herald/pkg/utils/safe"
)

type notificationResponse struct {
	ID             string    `json:"id"`
	Category       string    `json:"category"`
	RuleKey        string    `json:"rule_key"`
	Urgency        string    `json:"urgency"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	ActionLabel    string    `json:"action_label,omitempty"`
	ActionRef      string    `json:"action_ref,omitempty"`
	SourceEntityID string    `json:"source_entity_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastSeenAt     time.Time `json:"last_seen_at"`
}

type notificationListResponse struct {
	Notifications []notificationResponse `json:"notifications"`
}

func toNotificationList(list []*model.Notification) notificationListResponse {
	resp := notificationListResponse{
		Notifications: make([]notificationResponse, len(list)),
	}
	for i, n := range list {
		resp.Notifications[i] = notificationResponse{
			ID:             n.ID.String(),
			Category:       n.Category.String(),
			RuleKey:        n.RuleKey.String(),
			Urgency:        n.Urgency.String(),
			Title:          n.Title,
			Message:        n.Message,
			ActionLabel:    n.ActionLabel,
			ActionRef:      n.ActionRef,
			SourceEntityID: n.SourceEntityID,
			CreatedAt:      n.CreatedAt,
			LastSeenAt:     n.LastSeenAt,
		}
	}
	return resp
}

func userIDParam(r *http.Request) types.UserID {
	return types.UserID(chi.URLParam(r, "userID"))
}

func (s *Server) sweepHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.uc.RunSweep(r.Context(), userIDParam(r))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	writeJSON(w, r, toNotificationList(list))
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	userID := userIDParam(r)

	var limit int
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errutil.HandleHTTP(r.Context(), w, goerr.New("invalid limit", goerr.V("limit", v)), http.StatusBadRequest)
			return
		}
		limit = n
	}

	// Fetching the list marks an active session
	if s.scheduler != nil && userID != "" {
		s.scheduler.Track(userID)
	}

	list, err := s.uc.GetActiveNotifications(r.Context(), userID, limit)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	writeJSON(w, r, toNotificationList(list))
}

func (s *Server) dismissHandler(w http.ResponseWriter, r *http.Request) {
	id := types.NotificationID(chi.URLParam(r, "notificationID"))
	if err := s.uc.Dismiss(r.Context(), userIDParam(r), id); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) endSessionHandler(w http.ResponseWriter, r *http.Request) {
	if s.scheduler != nil {
		s.scheduler.Untrack(userIDParam(r))
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidUserID):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, data)
}
