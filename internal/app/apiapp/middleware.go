package apiapp

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ivankudzin/matchdeck/internal/infra/metrics"
	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
	httperrors "github.com/ivankudzin/matchdeck/internal/transport/http/errors"
)

const defaultRequestTimeout = 60 * time.Second

// ApplyMiddlewares installs the shared stack. Metrics run before the logger
// so the logged status matches the counted one.
func ApplyMiddlewares(r chi.Router, log *zap.Logger, m *metrics.Metrics, timeout time.Duration) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))
	r.Use(m.Middleware)
	r.Use(requestLogger(log))
}

// AuthMiddleware accepts an HS256 bearer token whose subject is the user id.
func AuthMiddleware(jwt *authsvc.JWTManager, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if jwt == nil {
				httperrors.WriteError(w, http.StatusInternalServerError, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
				return
			}

			accessToken, ok := extractBearerToken(r.Header.Get("Authorization"))
			if !ok {
				httperrors.Unauthenticated(w, "missing bearer token")
				return
			}

			claims, err := jwt.ParseAccessToken(accessToken)
			if err != nil {
				log.Debug("access token rejected",
					zap.String("request_id", chimiddleware.GetReqID(r.Context())),
					zap.Error(err),
				)
				httperrors.Unauthenticated(w, "invalid access token")
				return
			}

			ctx := authsvc.WithIdentity(r.Context(), authsvc.Identity{
				UserID: claims.UserID,
				SID:    claims.SID,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(value string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(value), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("duration", time.Since(start)),
			}
			if status >= http.StatusInternalServerError {
				log.Warn("http_request", fields...)
				return
			}
			log.Info("http_request", fields...)
		})
	}
}
