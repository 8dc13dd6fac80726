package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ivankudzin/matchdeck/internal/domain/model"
	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
	profilesvc "github.com/ivankudzin/matchdeck/internal/services/profiles"
	"github.com/ivankudzin/matchdeck/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/matchdeck/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilesvc.Service
	logger  *zap.Logger
}

func NewProfileHandler(service *profilesvc.Service, logger *zap.Logger) *ProfileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{service: service, logger: logger}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeNotAuthenticated(w)
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrNotAuthenticated):
			writeNotAuthenticated(w)
		case errors.Is(err, model.ErrProfileNotFound):
			httperrors.WriteError(w, http.StatusNotFound, "PROFILE_NOT_FOUND", "profile not found")
		default:
			h.logger.Error("get profile", zap.String("user_id", identity.UserID), zap.Error(err))
			writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(profile))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeNotAuthenticated(w)
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid json body")
		return
	}

	profile, err := h.service.Put(r.Context(), profilesvc.PutInput{
		ID:          identity.UserID,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		PhotoURL:    req.PhotoURL,
		Age:         req.Age,
	})
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrAgeRejected):
			httperrors.WriteError(w, http.StatusUnprocessableEntity, "AGE_REJECTED", "age is below the allowed minimum")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		default:
			h.logger.Error("update profile", zap.String("user_id", identity.UserID), zap.Error(err))
			writeInternal(w, "INTERNAL_ERROR", "failed to save profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(profile))
}
