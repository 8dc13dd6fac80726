package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ivankudzin/matchdeck/internal/domain/model"
	"github.com/ivankudzin/matchdeck/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/matchdeck/internal/transport/http/errors"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.WriteError(w, http.StatusBadRequest, code, message)
}

func writeNotAuthenticated(w http.ResponseWriter) {
	httperrors.Unauthenticated(w, "authentication required")
}

func writeBadGateway(w http.ResponseWriter, code, message string) {
	httperrors.WriteError(w, http.StatusBadGateway, code, message)
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.WriteError(w, http.StatusInternalServerError, code, message)
}

func mapProfile(profile model.Profile) dto.ProfileResponse {
	profile = profile.Normalize()
	return dto.ProfileResponse{
		ID:          profile.ID,
		DisplayName: profile.DisplayName,
		Bio:         profile.Bio,
		PhotoURL:    profile.PhotoURL,
		Age:         profile.Age,
	}
}
