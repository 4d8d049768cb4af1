package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokensentry/tokensentry/internal/chain"
	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/confidence"
	"github.com/tokensentry/tokensentry/internal/engine"
	"github.com/tokensentry/tokensentry/internal/resolve"
	"github.com/tokensentry/tokensentry/internal/risk"
	"github.com/tokensentry/tokensentry/internal/store"
)

type mockAnalyzer struct {
	analysis *engine.Analysis
	err      error
	gotAddr  string
}

func (m *mockAnalyzer) Analyze(_ context.Context, address string) (*engine.Analysis, error) {
	m.gotAddr = address
	return m.analysis, m.err
}

type mockQuota struct {
	err  error
	keys []string
}

func (m *mockQuota) Consume(_ context.Context, apiKey string) error {
	m.keys = append(m.keys, apiKey)
	return m.err
}

func sampleAnalysis() *engine.Analysis {
	return &engine.Analysis{
		Identity: resolve.Identity{
			Address: "0xdac17f958d2ee523a2206206994597c13d831ec7",
			Chain:   "ethereum",
			Name:    "Tether USD",
			Symbol:  "USDT",
		},
		Input:       "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		Kind:        "evm",
		HealthScore: 95,
		RiskLevel:   risk.LevelLow,
		Confidence: confidence.Report{
			Level:            confidence.LevelHigh,
			Percentage:       100,
			SuccessfulChecks: 6,
			TotalChecks:      6,
			BlendedScore:     100,
		},
		Verdict:     "No critical risks detected",
		EvaluatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAnalyzeJSON(t *testing.T) {
	analyzer := &mockAnalyzer{analysis: sampleAnalysis()}
	srv := New(analyzer, nil, config.Default().Server)

	req := httptest.NewRequest(http.MethodGet, "/v1/analyze/0xdAC17F958D2ee523a2206206994597C13D831ec7", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0xdAC17F958D2ee523a2206206994597C13D831ec7", analyzer.gotAddr)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var got engine.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 95, got.HealthScore)
	assert.Equal(t, risk.LevelLow, got.RiskLevel)
	assert.Equal(t, "USDT", got.Identity.Symbol)
}

func TestAnalyzeTextFormat(t *testing.T) {
	srv := New(&mockAnalyzer{analysis: sampleAnalysis()}, nil, config.Default().Server)

	req := httptest.NewRequest(http.MethodGet, "/v1/analyze/0xdAC17F958D2ee523a2206206994597C13D831ec7?format=text", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Tether USD")
	assert.Contains(t, rec.Body.String(), "95")
}

func TestAnalyzeInvalidAddress(t *testing.T) {
	srv := New(&mockAnalyzer{err: chain.ErrInvalidAddress}, nil, config.Default().Server)

	req := httptest.NewRequest(http.MethodGet, "/v1/analyze/banana", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not a recognizable token address")
}

func TestQuotaEnforced(t *testing.T) {
	quota := &mockQuota{}
	srv := New(&mockAnalyzer{analysis: sampleAnalysis()}, quota, config.Default().Server)

	// Missing key is rejected before the engine runs.
	req := httptest.NewRequest(http.MethodGet, "/v1/analyze/0xdAC17F958D2ee523a2206206994597C13D831ec7", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, quota.keys)

	req = httptest.NewRequest(http.MethodGet, "/v1/analyze/0xdAC17F958D2ee523a2206206994597C13D831ec7", nil)
	req.Header.Set("X-API-Key", "key-1")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"key-1"}, quota.keys)
}

func TestQuotaExhausted(t *testing.T) {
	quota := &mockQuota{err: store.ErrExhausted}
	srv := New(&mockAnalyzer{analysis: sampleAnalysis()}, quota, config.Default().Server)

	req := httptest.NewRequest(http.MethodGet, "/v1/analyze/0xdAC17F958D2ee523a2206206994597C13D831ec7", nil)
	req.Header.Set("X-API-Key", "spent-key")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv := New(&mockAnalyzer{}, nil, config.Default().Server)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestMetricsCountAnalyses(t *testing.T) {
	analysis := sampleAnalysis()
	analysis.RiskLevel = risk.LevelHigh
	analysis.Degraded = true
	srv := New(&mockAnalyzer{analysis: analysis}, nil, config.Default().Server)

	req := httptest.NewRequest(http.MethodGet, "/v1/analyze/0xdAC17F958D2ee523a2206206994597C13D831ec7", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	families, err := srv.metrics.registry.Gather()
	require.NoError(t, err)

	byName := map[string]*dto.MetricFamily{}
	for _, f := range families {
		byName[f.GetName()] = f
	}

	risks := byName["tokensentry_analyses_total"]
	require.NotNil(t, risks)
	var highs float64
	for _, m := range risks.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "risk" && l.GetValue() == "HIGH" {
				highs = m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, highs)

	degraded := byName["tokensentry_analyses_degraded_total"]
	require.NotNil(t, degraded)
	assert.Equal(t, 1.0, degraded.GetMetric()[0].GetCounter().GetValue())

	// The /metrics endpoint serves the same registry.
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "tokensentry_analyze_duration_seconds"))
}
