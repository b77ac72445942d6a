package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)

	assert.NotNil(t, mockDB.DB)
	assert.NotNil(t, mockDB.Mock)
	mockDB.ExpectationsWereMet(t)
}

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("shopper"), NewTestUUID("shopper"))
	assert.NotEqual(t, NewTestUUID("shopper"), NewTestUUID("admin"))
}

func TestUniqueEmail(t *testing.T) {
	a, b := UniqueEmail("asha"), UniqueEmail("asha")
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "@example.com")
}

func TestRequireEventually(t *testing.T) {
	calls := 0
	RequireEventually(t, func() bool {
		calls++
		return calls == 3
	}, time.Second, time.Millisecond)
	assert.Equal(t, 3, calls)
}

func TestAPIClient(t *testing.T) {
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"name": body["name"],
			"auth": c.GetHeader("Authorization"),
		}})
	})
	engine.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "NOT_FOUND", "message": "missing"}})
	})

	client := NewAPIClient(t, engine)

	type echo struct {
		Name string `json:"name"`
		Auth string `json:"auth"`
	}
	got := DecodeData[echo](t, client.As("tok").Do(http.MethodPost, "/echo", map[string]string{"name": "kurta"}), http.StatusOK)
	assert.Equal(t, echo{Name: "kurta", Auth: "Bearer tok"}, got)
	assert.Empty(t, client.Token, "As must not change the original client")

	assert.Equal(t, "NOT_FOUND", ErrorCode(t, client.Do(http.MethodGet, "/fail", nil), http.StatusNotFound))
}
