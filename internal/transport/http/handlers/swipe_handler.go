package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
	ratesvc "github.com/ivankudzin/matchdeck/internal/services/rate"
	swipesvc "github.com/ivankudzin/matchdeck/internal/services/swipes"
	"github.com/ivankudzin/matchdeck/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/matchdeck/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
	limiter *ratesvc.Limiter
	logger  *zap.Logger
}

// NewSwipeHandler wires the recorder. limiter may be nil.
func NewSwipeHandler(service *swipesvc.Service, limiter *ratesvc.Limiter, logger *zap.Logger) *SwipeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SwipeHandler{service: service, limiter: limiter, logger: logger}
}

func (h *SwipeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeNotAuthenticated(w)
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if strings.TrimSpace(req.TargetID) == "" || strings.TrimSpace(req.Action) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "target_id and action are required")
		return
	}

	if retryAfter, limited := h.rateLimited(r, identity.UserID); limited {
		httperrors.WriteRateLimited(w, "TOO_FAST", "too many swipes, slow down", retryAfter)
		return
	}

	record, err := h.service.Record(r.Context(), identity.UserID, req.TargetID, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrNotAuthenticated):
			writeNotAuthenticated(w)
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
		case errors.Is(err, swipesvc.ErrUnsupportedAction):
			writeBadRequest(w, "VALIDATION_ERROR", "unsupported action")
		default:
			if _, ok := swipesvc.IsRecordError(err); ok {
				writeBadGateway(w, "SWIPE_RECORD_FAILED", "could not record swipe")
				return
			}
			h.logger.Error("record swipe", zap.String("user_id", identity.UserID), zap.Error(err))
			writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeResponse{
		OK: true,
		Record: dto.SwipeRecordResponse{
			SwiperID:  record.SwiperID,
			TargetID:  record.TargetID,
			Action:    record.Action.String(),
			CreatedAt: record.CreatedAt,
		},
	})
}

// rateLimited checks the windows before consuming a slot, so rejected
// requests do not extend a burst. Limiter outages never block swiping.
func (h *SwipeHandler) rateLimited(r *http.Request, userID string) (int64, bool) {
	if !h.limiter.Enabled() {
		return 0, false
	}

	retryAfter, err := h.limiter.RetryAfter(r.Context(), userID)
	if err != nil {
		h.logger.Warn("swipe rate limiter unavailable", zap.String("user_id", userID), zap.Error(err))
		return 0, false
	}
	if retryAfter > 0 {
		return retryAfter, true
	}

	retryAfter, allowed, err := h.limiter.AllowSwipe(r.Context(), userID)
	if err != nil {
		h.logger.Warn("swipe rate limiter unavailable", zap.String("user_id", userID), zap.Error(err))
		return 0, false
	}
	return retryAfter, !allowed
}
