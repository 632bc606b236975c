package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/resilience"
)

func TestFindPlace_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/findplacefromtext/json", r.URL.Path)
		assert.Equal(t, "ABC Trucking Dallas", r.URL.Query().Get("input"))
		assert.Equal(t, "textquery", r.URL.Query().Get("inputtype"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"candidates": [
				{"place_id": "pid-1", "name": "ABC Trucking", "formatted_address": "100 Main St, Dallas, TX 75201, USA"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := client.FindPlace(context.Background(), "ABC Trucking Dallas")

	require.NoError(t, err)
	require.Len(t, got.Candidates, 1)
	assert.Equal(t, "pid-1", got.Candidates[0].PlaceID)
	assert.Equal(t, "ABC Trucking", got.Candidates[0].Name)
}

func TestFindPlace_ZeroResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "candidates": []}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := client.FindPlace(context.Background(), "no such business anywhere")

	require.NoError(t, err)
	assert.Empty(t, got.Candidates)
}

func TestFindPlace_RateLimited(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.FindPlace(context.Background(), "anything")

	require.Error(t, err)
	assert.True(t, resilience.IsRateLimited(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "429 must not be retried")
}

func TestFindPlace_OverQueryLimitStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OVER_QUERY_LIMIT"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.FindPlace(context.Background(), "anything")

	require.Error(t, err)
	assert.True(t, resilience.IsRateLimited(err))
}

func TestFindPlace_RetriesServerError(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status": "OK", "candidates": []}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := client.FindPlace(context.Background(), "anything")

	require.NoError(t, err)
	assert.Equal(t, "OK", got.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDetails_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details/json", r.URL.Path)
		assert.Equal(t, "pid-1", r.URL.Query().Get("place_id"))

		w.Write([]byte(`{
			"status": "OK",
			"result": {
				"place_id": "pid-1",
				"name": "ABC Trucking",
				"formatted_address": "100 Main St, Dallas, TX 75201, USA",
				"formatted_phone_number": "(214) 555-0134",
				"website": "https://abctrucking.com",
				"business_status": "OPERATIONAL"
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := client.Details(context.Background(), "pid-1")

	require.NoError(t, err)
	assert.Equal(t, "(214) 555-0134", got.Result.FormattedPhoneNumber)
	assert.Equal(t, "https://abctrucking.com", got.Result.Website)
}

func TestDetails_APIStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "REQUEST_DENIED"}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := client.Details(context.Background(), "pid-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}
