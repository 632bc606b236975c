package snov

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snovTestServer(t *testing.T, emailsBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		w.Write([]byte(`{"access_token": "tok-123", "expires_in": 3600}`))
	})
	mux.HandleFunc("/v2/domain-emails-with-info", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-123", r.URL.Query().Get("access_token"))
		w.Write([]byte(emailsBody))
	})
	return httptest.NewServer(mux)
}

func TestDomainEmails_Success(t *testing.T) {
	t.Parallel()

	srv := snovTestServer(t, `{
		"success": true,
		"domain": "abctrucking.com",
		"emails": [
			{"email": "jane@abctrucking.com", "type": "personal", "status": "verified", "position": "Owner"},
			{"email": "office@abctrucking.com", "type": "generic", "status": "valid"}
		]
	}`)
	defer srv.Close()

	client := NewClient("id", "secret", WithBaseURL(srv.URL))
	got, err := client.DomainEmails(context.Background(), "abctrucking.com")

	require.NoError(t, err)
	require.Len(t, got.Emails, 2)
	assert.Equal(t, "personal", got.Emails[0].Type)
}

func TestDomainEmails_TokenCached(t *testing.T) {
	t.Parallel()

	var authCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&authCalls, 1)
		w.Write([]byte(`{"access_token": "tok-123"}`))
	})
	mux.HandleFunc("/v2/domain-emails-with-info", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "emails": []}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient("id", "secret", WithBaseURL(srv.URL))
	_, err := client.DomainEmails(context.Background(), "a.com")
	require.NoError(t, err)
	_, err = client.DomainEmails(context.Background(), "b.com")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&authCalls))
}

func TestDomainEmails_AuthFailure(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "invalid credentials"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient("id", "wrong", WithBaseURL(srv.URL))
	_, err := client.DomainEmails(context.Background(), "a.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
