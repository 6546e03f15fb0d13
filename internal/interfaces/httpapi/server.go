package httpapi

import (
	"net/http"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/logging"
)

// RouterConfig carries the middleware knobs the router needs.
type RouterConfig struct {
	Logger              *logging.Logger
	SwaggerEnabled      bool
	CORSAllowedOrigins  []string
	InternalJobToken    string
	CaptureRequestBody  bool
	RequestBodyMaxBytes int
}

func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerReportRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, cfg.InternalJobToken)

	var root http.Handler = recoverPanic(logger, mux)
	root = CORS(cfg.CORSAllowedOrigins, root)
	if cfg.CaptureRequestBody {
		root = CaptureRequestBody(cfg.RequestBodyMaxBytes, root)
	}

	return RequestTracing(RequestLogging(logger, root))
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
