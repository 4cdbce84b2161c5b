package recommend

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/glasgownights/nightout-api/app/observability/metrics"
	"github.com/glasgownights/nightout-api/internal/planner"
	"github.com/glasgownights/nightout-api/internal/types"
)

// metricReader lets tests read back the counters the service records.
var metricReader *sdkmetric.ManualReader

func TestMain(m *testing.M) {
	metricReader = sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader)))
	metrics.InitAppMetrics()
	os.Exit(m.Run())
}

// counterValue collects the current cumulative value of a named counter.
func counterValue(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, metricReader.Collect(context.Background(), &rm))
	for _, scope := range rm.ScopeMetrics {
		for _, met := range scope.Metrics {
			if met.Name != name {
				continue
			}
			sum, ok := met.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

// seqIDGenerator counts calls, so tests can tell a fresh computation from
// a cache replay.
type seqIDGenerator struct {
	calls int
}

func (g *seqIDGenerator) NewRequestID() string {
	g.calls++
	return fmt.Sprintf("req-%d", g.calls)
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

func newTestService(ids IDGenerator) *ServiceImpl {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := fixedClock{t: time.Date(2025, 11, 15, 18, 30, 0, 0, time.UTC)}
	return NewServiceImpl(planner.NewEngine(types.Location{}), ids, clock, time.Minute, logger)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func validRequest() types.RecommendationRequest {
	return types.RecommendationRequest{
		Request: types.PlanRequest{
			Date:            "2025-11-15",
			StartTime:       "19:00",
			DurationMinutes: 240,
			GroupSize:       4,
			BudgetPerPerson: 25,
			Moods:           []string{"karaoke"},
		},
		Candidates: []types.Candidate{
			{
				ID:                   "bar-1",
				Kind:                 types.CandidateVenue,
				Name:                 "Sing City",
				Categories:           []string{"karaoke", "bar"},
				Location:             types.Location{Lat: 55.8642, Lon: -4.2518},
				DistanceKmFromCenter: 0.8,
				Indoor:               true,
				PriceTier:            intPtr(2),
				Rating:               floatPtr(4.7),
				Reviews:              intPtr(1200),
			},
			{
				ID:                   "bar-2",
				Kind:                 types.CandidateVenue,
				Name:                 "Dram!",
				Categories:           []string{"bar", "pub"},
				Location:             types.Location{Lat: 55.8642, Lon: -4.2518},
				DistanceKmFromCenter: 0.5,
				Indoor:               true,
				PriceTier:            intPtr(1),
			},
		},
	}
}

func TestRecommend(t *testing.T) {
	ids := &seqIDGenerator{}
	svc := newTestService(ids)

	resp, err := svc.Recommend(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, "2025-11-15T18:30:00Z", resp.GeneratedAt)
	require.NotEmpty(t, resp.Top)
	assert.Equal(t, "bar-1", resp.Top[0].ID)
	require.Len(t, resp.Itineraries, 1)
	assert.Equal(t, "Karaoke Night", resp.Itineraries[0].Title)
}

func TestRecommend_CacheReplay(t *testing.T) {
	ids := &seqIDGenerator{}
	svc := newTestService(ids)

	first, err := svc.Recommend(context.Background(), validRequest())
	require.NoError(t, err)

	second, err := svc.Recommend(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, first.RequestID, second.RequestID, "replayed payload returns the cached response")
	assert.Equal(t, 1, ids.calls, "pipeline ran once")
}

func TestRecommend_DistinctPayloads(t *testing.T) {
	ids := &seqIDGenerator{}
	svc := newTestService(ids)

	_, err := svc.Recommend(context.Background(), validRequest())
	require.NoError(t, err)

	other := validRequest()
	other.Request.Moods = []string{"chill"}
	resp, err := svc.Recommend(context.Background(), other)
	require.NoError(t, err)

	assert.Equal(t, "req-2", resp.RequestID)
	assert.Equal(t, 2, ids.calls)
}

func TestRecommend_CacheHitsCounted(t *testing.T) {
	svc := newTestService(&seqIDGenerator{})

	before := counterValue(t, "recommend_requests_total")

	_, err := svc.Recommend(context.Background(), validRequest())
	require.NoError(t, err)
	_, err = svc.Recommend(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, before+2, counterValue(t, "recommend_requests_total"),
		"replayed requests count as served requests")
}

func TestRecommend_InvalidRequest(t *testing.T) {
	svc := newTestService(&seqIDGenerator{})

	req := validRequest()
	req.Request.Date = "15/11/2025"

	_, err := svc.Recommend(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recommendation request")
}

func TestRecommend_NoCandidates(t *testing.T) {
	svc := newTestService(&seqIDGenerator{})

	req := validRequest()
	req.Candidates = nil

	resp, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Top)
	assert.Empty(t, resp.Itineraries)
}
