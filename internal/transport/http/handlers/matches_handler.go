package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
	matchsvc "github.com/ivankudzin/matchdeck/internal/services/matches"
	"github.com/ivankudzin/matchdeck/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/matchdeck/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchsvc.Service
	logger  *zap.Logger
}

func NewMatchesHandler(service *matchsvc.Service, logger *zap.Logger) *MatchesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchesHandler{service: service, logger: logger}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeNotAuthenticated(w)
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	items, err := h.service.Find(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrNotAuthenticated):
			writeNotAuthenticated(w)
		case matchsvc.IsQueryError(err):
			writeBadGateway(w, "MATCH_QUERY_FAILED", "could not load matches")
		default:
			h.logger.Error("list matches", zap.String("user_id", identity.UserID), zap.Error(err))
			writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		}
		return
	}

	resp := dto.MatchesResponse{Items: make([]dto.MatchItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.MatchItemResponse{
			User:      mapProfile(item.User),
			MatchedAt: item.MatchedAt,
		})
	}
	httperrors.Write(w, http.StatusOK, resp)
}
