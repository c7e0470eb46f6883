package ruralstay

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestSource(baseURL string) *Source {
	return New(Config{
		BaseURL:        baseURL,
		ServiceKey:     "test-key",
		PageSize:       100,
		Timeout:        2 * time.Second,
		RateLimit:      100, // high rps so tests never block on the limiter
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
	}, testLogger())
}

const pageWithItems = `{
	"response": {
		"header": {"resultCode": "00", "resultMsg": "NORMAL SERVICE"},
		"body": {
			"numOfRows": 100, "pageNo": 1, "totalCount": 2,
			"items": {"item": [
				{
					"MNG_NO": "X1",
					"BPLC_NM": "제주햇살민박",
					"ROAD_NM_ADDR": "제주특별자치도 제주시 애월로 1",
					"LOTNO_ADDR": "제주시 애월읍 10",
					"TELNO": "064-000-0000",
					"GSRM_CNT": "4",
					"SALS_STTS_NM": "영업",
					"INDUTY_NM": "농어촌민박업",
					"BSN_STATE_NM": "민박",
					"DTL_STTS_NM": "정상"
				},
				{"MNG_NO": "X2", "BPLC_NM": "바다호텔"}
			]}
		}
	}
}`

func TestSource_FetchPage(t *testing.T) {
	var gotQuery atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pageWithItems))
	}))
	defer ts.Close()

	src := newTestSource(ts.URL)

	listings, err := src.FetchPage(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "X1", listings[0].ExternalID)
	assert.Equal(t, "제주햇살민박", listings[0].Name)
	assert.Equal(t, "제주특별자치도 제주시 애월로 1", listings[0].RoadAddress)
	assert.Equal(t, "농어촌민박업", listings[0].IndustryName)
	assert.Equal(t, "영업", listings[0].StatusName)
	assert.Equal(t, "X2", listings[1].ExternalID)

	q := gotQuery.Load().(url.Values)
	assert.Equal(t, "test-key", q.Get("serviceKey"))
	assert.Equal(t, "100", q.Get("numOfRows"))
	assert.Equal(t, "3", q.Get("pageNo"))
	assert.Equal(t, "json", q.Get("type"))
}

func TestSource_FetchPage_EndOfData(t *testing.T) {
	// Past the last page the portal drops the nested containers in various
	// ways; all of them must read as a clean end-of-data.
	bodies := map[string]string{
		"null response":   `{"response": null}`,
		"missing body":    `{"response": {"header": {"resultCode": "00"}}}`,
		"missing items":   `{"response": {"header": {"resultCode": "00"}, "body": {"totalCount": 0}}}`,
		"empty item list": `{"response": {"header": {"resultCode": "00"}, "body": {"items": {"item": []}}}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer ts.Close()

			listings, err := newTestSource(ts.URL).FetchPage(context.Background(), 1)
			require.NoError(t, err)
			assert.Empty(t, listings)
		})
	}
}

func TestSource_FetchPage_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(pageWithItems))
	}))
	defer ts.Close()

	listings, err := newTestSource(ts.URL).FetchPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, listings, 2)
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
}

func TestSource_FetchPage_ExhaustedRetries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	listings, err := newTestSource(ts.URL).FetchPage(context.Background(), 1)
	assert.Error(t, err)
	assert.Nil(t, listings)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestSource_FetchPage_ClampsMaxAttempts(t *testing.T) {
	// A non-positive attempt count must still fetch once rather than skip
	// the request loop and read as end-of-data.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pageWithItems))
	}))
	defer ts.Close()

	src := New(Config{
		BaseURL:     ts.URL,
		ServiceKey:  "test-key",
		PageSize:    100,
		Timeout:     2 * time.Second,
		RateLimit:   100,
		MaxAttempts: -1,
	}, testLogger())

	listings, err := src.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, listings, 2)
}

func TestSource_FetchPage_MalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<OpenAPI_ServiceResponse>limit exceeded</OpenAPI_ServiceResponse>`))
	}))
	defer ts.Close()

	_, err := newTestSource(ts.URL).FetchPage(context.Background(), 1)
	assert.Error(t, err)
}
