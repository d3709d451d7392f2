package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fpl-data-service/internal/platform/logging"
	"github.com/riskibarqy/fpl-data-service/internal/usecase"
)

func NewRouter(
	handler *Handler,
	syncService *usecase.SyncService,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	syncAPIKey string,
	internalJobToken string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerReadRoutes(mux, handler, syncService)
	registerSyncRoutes(mux, handler, syncAPIKey, internalJobToken)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
