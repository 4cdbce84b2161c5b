package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/glasgownights/nightout-api/app/observability/metrics"
	"github.com/glasgownights/nightout-api/internal/planner"
	"github.com/glasgownights/nightout-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for recommendation requests.
type Service interface {
	Recommend(ctx context.Context, req types.RecommendationRequest) (types.RecommendationResponse, error)
}

// IDGenerator supplies response request ids. Injected so tests can pin
// the id instead of depending on a process-wide random source.
type IDGenerator interface {
	NewRequestID() string
}

// Clock supplies the response generation timestamp.
type Clock interface {
	Now() time.Time
}

// UUIDGenerator is the production IDGenerator.
type UUIDGenerator struct{}

func (UUIDGenerator) NewRequestID() string { return uuid.NewString() }

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type ServiceImpl struct {
	logger *slog.Logger
	engine *planner.Engine
	ids    IDGenerator
	clock  Clock
	cache  *cache.Cache
}

// NewServiceImpl wires the engine with id/clock capabilities and a TTL
// cache for replayed payloads.
func NewServiceImpl(engine *planner.Engine, ids IDGenerator, clock Clock, cacheTTL time.Duration, logger *slog.Logger) *ServiceImpl {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ServiceImpl{
		logger: logger,
		engine: engine,
		ids:    ids,
		clock:  clock,
		cache:  cache.New(cacheTTL, 2*cacheTTL),
	}
}

// Recommend validates the request, then runs the pure pipeline:
// rank candidates, build itineraries, assemble the response. An identical
// payload replayed within the cache TTL returns the cached response; the
// request id identifies the computation, not the HTTP exchange.
func (s *ServiceImpl) Recommend(ctx context.Context, req types.RecommendationRequest) (types.RecommendationResponse, error) {
	ctx, span := otel.Tracer("RecommendService").Start(ctx, "Recommend", trace.WithAttributes(
		attribute.Int("candidates.count", len(req.Candidates)),
		attribute.StringSlice("request.moods", req.Request.Moods),
	))
	defer span.End()
	start := time.Now()

	if err := req.Request.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		return types.RecommendationResponse{}, fmt.Errorf("invalid recommendation request: %w", err)
	}

	// Request count and latency cover every served request, cache hits
	// included; the ranked/built counters only move on fresh computations.
	m := metrics.Get()

	cacheKey, keyErr := payloadKey(req)
	if keyErr == nil {
		if cached, found := s.cache.Get(cacheKey); found {
			s.logger.InfoContext(ctx, "Cache hit for recommendation payload", slog.String("cache_key", cacheKey))
			span.AddEvent("Cache hit")
			m.RecommendRequestsTotal.Add(ctx, 1)
			m.RecommendDurationSeconds.Record(ctx, time.Since(start).Seconds())
			return cached.(types.RecommendationResponse), nil
		}
	}

	ranked := s.engine.RankActivities(req.Request, req.Candidates, req.Weather)
	itineraries := s.engine.BuildItineraries(req.Request, ranked)
	resp := planner.AssembleResponse(s.ids.NewRequestID(), s.clock.Now(), ranked, itineraries)

	m.RecommendRequestsTotal.Add(ctx, 1)
	m.RecommendDurationSeconds.Record(ctx, time.Since(start).Seconds())
	m.CandidatesRankedTotal.Add(ctx, int64(len(ranked)))
	m.ItinerariesBuiltTotal.Add(ctx, int64(len(itineraries)))

	if keyErr == nil {
		s.cache.Set(cacheKey, resp, cache.DefaultExpiration)
	}

	s.logger.InfoContext(ctx, "Recommendation computed",
		slog.String("request_id", resp.RequestID),
		slog.Int("candidates_in", len(req.Candidates)),
		slog.Int("ranked", len(ranked)),
		slog.Int("itineraries", len(itineraries)),
	)
	span.SetAttributes(
		attribute.Int("ranked.count", len(ranked)),
		attribute.Int("itineraries.count", len(itineraries)),
	)
	span.SetStatus(codes.Ok, "Recommendation computed")
	return resp, nil
}

// payloadKey hashes the full inbound payload so identical replays hit the
// cache regardless of field ordering in the original JSON.
func payloadKey(req types.RecommendationRequest) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
