package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
	candidatesvc "github.com/ivankudzin/matchdeck/internal/services/candidates"
	"github.com/ivankudzin/matchdeck/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/matchdeck/internal/transport/http/errors"
)

type CandidateHandler struct {
	service *candidatesvc.Service
	logger  *zap.Logger
}

func NewCandidateHandler(service *candidatesvc.Service, logger *zap.Logger) *CandidateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateHandler{service: service, logger: logger}
}

func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeNotAuthenticated(w)
		return
	}
	if h.service == nil {
		writeInternal(w, "CANDIDATES_SERVICE_UNAVAILABLE", "candidates service is unavailable")
		return
	}

	profiles, err := h.service.Select(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrNotAuthenticated):
			writeNotAuthenticated(w)
		case candidatesvc.IsFetchError(err):
			writeBadGateway(w, "FETCH_FAILED", "could not load candidates")
		default:
			h.logger.Error("list candidates", zap.String("user_id", identity.UserID), zap.Error(err))
			writeInternal(w, "INTERNAL_ERROR", "failed to load candidates")
		}
		return
	}

	resp := dto.CandidatesResponse{Items: make([]dto.ProfileResponse, 0, len(profiles))}
	for _, profile := range profiles {
		resp.Items = append(resp.Items, mapProfile(profile))
	}
	httperrors.Write(w, http.StatusOK, resp)
}
