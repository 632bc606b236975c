package hunter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/resilience"
)

func TestDomainSearch_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/domain-search", r.URL.Path)
		assert.Equal(t, "abctrucking.com", r.URL.Query().Get("domain"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.Write([]byte(`{
			"data": {
				"domain": "abctrucking.com",
				"organization": "ABC Trucking",
				"emails": [
					{"value": "jane.doe@abctrucking.com", "type": "personal", "confidence": 92, "first_name": "Jane", "last_name": "Doe", "position": "Owner"},
					{"value": "info@abctrucking.com", "type": "generic", "confidence": 88}
				]
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := client.DomainSearch(context.Background(), "abctrucking.com")

	require.NoError(t, err)
	require.Len(t, got.Data.Emails, 2)
	assert.Equal(t, "personal", got.Data.Emails[0].Type)
	assert.Equal(t, 92, got.Data.Emails[0].Confidence)
}

func TestDomainSearch_NoEmails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"domain": "empty.com", "emails": []}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := client.DomainSearch(context.Background(), "empty.com")

	require.NoError(t, err)
	assert.Empty(t, got.Data.Emails)
}

func TestDomainSearch_QuotaExhausted(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[{"id":"usage_limit_reached"}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.DomainSearch(context.Background(), "abctrucking.com")

	require.Error(t, err)
	var qe *resilience.QuotaError
	assert.True(t, errors.As(err, &qe))
}

func TestDomainSearch_RateLimited(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.DomainSearch(context.Background(), "abctrucking.com")

	require.Error(t, err)
	assert.True(t, resilience.IsRateLimited(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
