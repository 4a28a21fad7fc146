package envelope

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(handler gin.HandlerFunc) map[string]any {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestList_IncludesCount(t *testing.T) {
	body := serve(func(c *gin.Context) {
		List(c, http.StatusOK, []string{"a", "b"})
	})

	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
	assert.Len(t, body["data"], 2)
}

func TestList_EmptyCollectionKeepsCountAndData(t *testing.T) {
	body := serve(func(c *gin.Context) {
		List[string](c, http.StatusOK, nil)
	})

	require.Contains(t, body, "count")
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, []any{}, body["data"])
}

func TestFail_OmitsData(t *testing.T) {
	body := serve(func(c *gin.Context) {
		Fail(c, http.StatusNotFound, "Order not found")
	})

	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Order not found", body["error"])
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "count")
}

func TestMessage(t *testing.T) {
	body := serve(func(c *gin.Context) {
		Message(c, http.StatusOK, "Order deleted successfully")
	})

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Order deleted successfully", body["message"])
}
