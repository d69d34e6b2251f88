package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"env":"production"}`))
	}))
	defer srv.Close()

	body, err := fetch(srv.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, `{"env":"production"}`, string(body))

	_, err = fetch(srv.URL + "/broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := fetch(url + "/")
	assert.Error(t, err)
}

func TestWaitForApp_Ready(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.NoError(t, waitForApp(srv.URL+"/health"))
}

func TestFormatCodes(t *testing.T) {
	assert.Equal(t, "200=3", formatCodes(map[string]int{"200": 3}))
}
