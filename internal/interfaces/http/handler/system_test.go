package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler(t *testing.T) {
	healthy := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("ready", func(t *testing.T) {
		h := NewSystemHandler("storefront-api", "1.2.0", map[string]Pinger{"database": healthy})
		r := newRouter(nil)
		r.GET("/health", h.Health)
		r.GET("/health/ready", h.Ready)
		r.GET("/system/info", h.Info)

		assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/health", nil).Code)

		w := perform(r, http.MethodGet, "/health/ready", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var ready ReadyResponse
		decodeData(t, w, &ready)
		assert.Equal(t, "ok", ready.Checks["database"])

		var info SystemInfoResponse
		decodeData(t, perform(r, http.MethodGet, "/system/info", nil), &info)
		assert.Equal(t, "1.2.0", info.Version)
	})

	t.Run("degraded", func(t *testing.T) {
		h := NewSystemHandler("storefront-api", "1.2.0", map[string]Pinger{"database": healthy, "redis": down})
		r := newRouter(nil)
		r.GET("/health/ready", h.Ready)

		w := perform(r, http.MethodGet, "/health/ready", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}
