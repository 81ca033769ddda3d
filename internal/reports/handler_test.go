package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service, userID string, guest bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Set("isGuest", guest)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestHandlerListGetDelete(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	saved, err := svc.Save(context.Background(), "user-1", sampleReport())
	require.NoError(t, err)
	router := newTestRouter(svc, "user-1", false)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	var list struct {
		Items []Summary `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, saved.ID, list.Items[0].ID)
	assert.True(t, list.Items[0].Viewable)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+saved.ID, nil))
	require.Equal(t, http.StatusOK, resp.Code)
	var got struct {
		Report SavedReport     `json:"report"`
		View   json.RawMessage `json:"view"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, saved.Analysis, got.Report.Analysis)
	assert.NotEmpty(t, got.View)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+saved.ID+"/pdf", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", resp.Body.String()[:4])

	for _, want := range []int{http.StatusNoContent, http.StatusNotFound, http.StatusNotFound} {
		resp = httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/v1/reports/"+saved.ID, nil))
		assert.Equal(t, want, resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+saved.ID, nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandlerGuestCannotList(t *testing.T) {
	router := newTestRouter(NewService(NewMemoryRepo(), nil), "guest:abc", true)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "login_required")
}

func TestHandlerOtherUserSeesNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	saved, err := svc.Save(context.Background(), "user-1", sampleReport())
	require.NoError(t, err)

	router := newTestRouter(svc, "user-2", false)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+saved.ID, nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
