package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"bling-sync/core/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := metrics.NewRecorder()

	r.RunStarted("venda")
	r.PageFetched("venda")
	r.PageFetched("venda")
	r.RateLimited("venda")
	r.ItemDone("venda", metrics.ResultProcessed, 20*time.Millisecond)
	r.ItemDone("venda", metrics.ResultProcessed, 30*time.Millisecond)
	r.ItemDone("venda", metrics.ResultSkipped, 0)

	assert.Equal(t, 1, testutil.CollectAndCount(r.Registry(), metrics.MetricRunning))
	assert.Equal(t, 2, testutil.CollectAndCount(r.Registry(), metrics.MetricItemsTotal))

	families, err := r.Registry().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				values[mf.GetName()] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	assert.Equal(t, 2.0, values[metrics.MetricPagesTotal])
	assert.Equal(t, 1.0, values[metrics.MetricRateLimitedTotal])
	assert.Equal(t, 3.0, values[metrics.MetricItemsTotal])
	assert.Equal(t, 2.0, values[metrics.MetricItemDurationSeconds])
	assert.Equal(t, 1.0, values[metrics.MetricRunning])

	r.RunFinished("venda")
	families, err = r.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == metrics.MetricRunning {
			assert.Equal(t, 0.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
}

func TestRegister(t *testing.T) {
	r := metrics.NewRecorder()
	r.PageFetched("nfe-saida")

	app := fiber.New()
	metrics.Register(app, metrics.Config{Enabled: true, Path: "/metrics"}, r)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `bling_sync_pages_total{kind="nfe-saida"} 1`)

	disabled := fiber.New()
	metrics.Register(disabled, metrics.Config{Enabled: false}, r)
	resp, err = disabled.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
