package requester

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "bar", r.PostFormValue("foo"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	form := url.Values{}
	form.Set("foo", "bar")

	resp, err := NewHTTPRequester().PostForm(context.Background(), srv.URL, form)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.Headers.Get("Content-Type"))
}

func TestPostFormErrorStatusPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	resp, err := NewHTTPRequester().PostForm(context.Background(), srv.URL, url.Values{})
	require.NoError(t, err, "non-2xx is not an execution error")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostFormNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewHTTPRequester().PostForm(context.Background(), srv.URL, url.Values{})
	require.Error(t, err)
}
