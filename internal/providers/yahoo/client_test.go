package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theredplanetsings/tradelab/internal/series"
)

// chartPayload has four daily bars with the third close null, the way Yahoo
// reports an exchange holiday. Adjusted closes sit slightly below the raw
// prints.
const chartPayload = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAA", "currency": "USD", "regularMarketPrice": 103.0},
      "timestamp": [1704153600, 1704240000, 1704326400, 1704412800],
      "indicators": {
        "quote": [{"close": [100.0, 101.0, null, 103.0]}],
        "adjclose": [{"adjclose": [99.0, 100.5, null, 102.5]}]
      }
    }],
    "error": null
  }
}`

const notFoundPayload = `{
  "chart": {
    "result": null,
    "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
  }
}`

func testServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	return testServerWith(t, handler, Config{})
}

func testServerWith(t *testing.T, handler http.HandlerFunc, config Config) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	config.BaseURL = srv.URL
	client, err := NewClient(config)
	require.NoError(t, err)
	return client
}

func TestClient_DailyHistory_ParsesAndSkipsNullBars(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v8/finance/chart/AAA"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.URL.Query().Get("period1"))
		fmt.Fprint(w, chartPayload)
	})

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	ps, err := client.DailyHistory(context.Background(), "AAA", start, end)
	require.NoError(t, err)

	// The null bar drops out; adjusted closes are preferred by default.
	require.Len(t, ps, 3)
	assert.Equal(t, []float64{99.0, 100.5, 102.5}, ps.Closes())
	assert.Equal(t, time.Unix(1704153600, 0).UTC(), ps[0].Time)
	assert.NoError(t, ps.Validate())
}

func TestClient_DailyHistory_RawCloseFallback(t *testing.T) {
	client := testServerWith(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartPayload)
	}, Config{PriceFields: []string{"close"}})

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	ps, err := client.DailyHistory(context.Background(), "AAA", start, end)
	require.NoError(t, err)
	assert.Equal(t, []float64{100.0, 101.0, 103.0}, ps.Closes())
}

func TestClient_DailyHistory_NoData(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, notFoundPayload)
	})

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	_, err := client.DailyHistory(context.Background(), "GONE", start, end)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestClient_DailyHistory_ChartErrorEnvelope(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, notFoundPayload) // HTTP 200 with an error body
	})

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	_, err := client.DailyHistory(context.Background(), "GONE", start, end)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestClient_DailyHistory_RejectsEmptyRange(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made for an empty range")
	})

	day := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	_, err := client.DailyHistory(context.Background(), "AAA", day, day)
	assert.ErrorIs(t, err, series.ErrConfig)

	_, err = client.DailyHistory(context.Background(), "", day.AddDate(0, 0, -7), day)
	assert.ErrorIs(t, err, series.ErrInvalidInput)
}

func TestClient_DailyHistoryBatch_PartialFailure(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "GONE") {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, notFoundPayload)
			return
		}
		fmt.Fprint(w, chartPayload)
	})

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	got, failures := client.DailyHistoryBatch(context.Background(), []string{"AAA", "BBB", "GONE"}, start, end)

	assert.Len(t, got, 2)
	assert.Contains(t, got, "AAA")
	assert.Contains(t, got, "BBB")
	require.Contains(t, failures, "GONE")
	assert.ErrorIs(t, failures["GONE"], ErrNoData)
	assert.NotContains(t, got, "GONE")
}

func TestClient_DailyHistoryBatch_NegativeConcurrencyFallsBack(t *testing.T) {
	// The semaphore needs a positive size, so a nonsense cap falls back to
	// the default instead of reaching the channel make.
	client := testServerWith(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartPayload)
	}, Config{MaxConcurrent: -1})
	assert.Equal(t, DefaultConfig().MaxConcurrent, client.concurrency)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	got, failures := client.DailyHistoryBatch(context.Background(), []string{"AAA", "BBB"}, start, end)
	assert.Empty(t, failures)
	assert.Len(t, got, 2)
}

func TestClient_Quote(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5d", r.URL.Query().Get("range"))
		fmt.Fprint(w, chartPayload)
	})

	q, err := client.Quote(context.Background(), "aaa")
	require.NoError(t, err)

	assert.Equal(t, "AAA", q.Symbol)
	assert.Equal(t, "USD", q.Currency)
	assert.InDelta(t, 102.5, q.Price, 1e-9)
	assert.InDelta(t, 2.0, q.Change, 1e-9, "against the prior valid close 100.5")
	assert.InDelta(t, 2.0/100.5*100, q.ChangePct, 1e-9)
	assert.Equal(t, time.Unix(1704412800, 0).UTC(), q.At)
}

func TestNewClient_ValidatesPriceFields(t *testing.T) {
	_, err := NewClient(Config{PriceFields: []string{"typical"}})
	assert.ErrorIs(t, err, series.ErrConfig)

	client, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, []PriceField{PriceAdjClose, PriceClose}, client.prefs)
}
