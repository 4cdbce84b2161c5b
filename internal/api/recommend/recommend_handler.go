package recommend

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/glasgownights/nightout-api/internal/api"
	"github.com/glasgownights/nightout-api/internal/types"
)

type Handler struct {
	recommendService Service
	logger           *slog.Logger
}

func NewHandler(recommendService Service, logger *slog.Logger) *Handler {
	return &Handler{
		recommendService: recommendService,
		logger:           logger,
	}
}

// CreateRecommendations ranks the posted candidates against the user's
// request and returns the ranked list plus up to two itineraries.
func (h *Handler) CreateRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CreateRecommendations").Start(r.Context(), "CreateRecommendations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/recommendations"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreateRecommendations"))
	l.DebugContext(ctx, "Create recommendations handler invoked")

	var req types.RecommendationRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := req.Request.Validate(); err != nil {
		l.ErrorContext(ctx, "Invalid plan request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.recommendService.Recommend(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to compute recommendations", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to compute recommendations")
		return
	}

	l.InfoContext(ctx, "Recommendations served", slog.String("request_id", resp.RequestID))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
