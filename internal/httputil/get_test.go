// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ReturnsBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"B":""}`))
	}))
	defer ts.Close()

	body, err := Get(context.Background(), ts.Client(), ts.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"B":""}`, string(body))
}

func TestGet_SendsHeaders(t *testing.T) {
	var ua, key string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		key = r.Header.Get("x-api-key")
	}))
	defer ts.Close()

	h := http.Header{}
	h.Set("User-Agent", "test/0.1")
	h.Set("x-api-key", "secret")

	_, err := Get(context.Background(), ts.Client(), ts.URL, h)
	require.NoError(t, err)
	assert.Equal(t, "test/0.1", ua)
	assert.Equal(t, "secret", key)
}

func TestGet_NonSuccessIsStatusError(t *testing.T) {
	tests := []struct {
		name string
		code int
	}{
		{"not found", http.StatusNotFound},
		{"rate limited", http.StatusTooManyRequests},
		{"server error", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer ts.Close()

			_, err := Get(context.Background(), ts.Client(), ts.URL+"/x", nil)
			require.Error(t, err)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.code, se.Code)
			assert.Equal(t, ts.URL+"/x", se.URL)
			assert.Contains(t, err.Error(), ts.URL+"/x")
		})
	}
}

func TestGet_DoesNotRetry(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := Get(context.Background(), ts.Client(), ts.URL, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGet_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get(ctx, ts.Client(), ts.URL, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
