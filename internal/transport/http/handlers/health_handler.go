package handlers

import (
	"net/http"

	httperrors "github.com/ivankudzin/matchdeck/internal/transport/http/errors"
)

func Health(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, map[string]bool{"ok": true})
}
