package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func customerClaims() *auth.Claims {
	return &auth.Claims{UserID: uuid.New().String(), Email: "asha@example.com", Role: identity.RoleCustomer}
}

func adminClaims() *auth.Claims {
	return &auth.Claims{UserID: uuid.New().String(), Email: "ops@example.com", Role: identity.RoleAdmin}
}

// newRouter builds an engine that authenticates every request as claims
// (anonymous when nil)
func newRouter(claims *auth.Claims) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.JWTClaimsKey, claims)
			c.Set(middleware.JWTUserIDKey, claims.UserID)
		}
		c.Next()
	})
	return r
}

func perform(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	if body == nil {
		return serve(r, httptest.NewRequest(method, path, nil))
	}
	s, ok := body.(string)
	if !ok {
		raw, _ := json.Marshal(body)
		s = string(raw)
	}
	return serve(r, newJSONRequest(method, path, s))
}

func newJSONRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// decodeData unmarshals the envelope's data into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.True(t, resp.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}
