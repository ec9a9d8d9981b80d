package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/limo-booking/internal/fare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRouter(repo *mockRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(NewService(repo, nil, 0)).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doRequest(router *gin.Engine, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestHandler_GetPublic(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetSettings", mock.Anything).Return(nil, errors.New("db down"))

	w := doRequest(setupRouter(repo), http.MethodGet, "/api/v1/settings/public", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, SourceDefaults, data["source"])
	settings := data["settings"].(map[string]interface{})
	assert.Equal(t, 1000.0, settings["maxFee"])
	assert.Equal(t, true, settings["distanceFeeEnabled"])
}

func TestHandler_GetAdmin_Error(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetSettings", mock.Anything).Return(nil, errors.New("db down"))

	w := doRequest(setupRouter(repo), http.MethodGet, "/api/v1/admin/settings", nil, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestHandler_Update(t *testing.T) {
	repo := new(mockRepo)
	repo.On("SaveSettings", mock.Anything, mock.MatchedBy(func(doc fare.SettingsDocument) bool {
		return doc.MinFee != nil && *doc.MinFee == 120 && doc.DistanceTiers != nil && (*doc.DistanceTiers)[2].MaxDistance == nil
	}), "dispatch-lead").Return(&StoredSettings{Version: 7, Document: fare.SettingsDocument{MinFee: floatPtr(120)}}, nil)

	body := []byte(`{
		"minFee": 120,
		"distanceTiers": [
			{"minDistance": 0, "maxDistance": 40, "fee": 0},
			{"minDistance": 40, "maxDistance": 60, "fee": 49},
			{"minDistance": 60, "maxDistance": "unbounded", "fee": 99}
		]
	}`)
	w := doRequest(setupRouter(repo), http.MethodPut, "/api/v1/admin/settings", body, map[string]string{UpdatedByHeader: "dispatch-lead"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 7.0, data["version"])
	repo.AssertExpectations(t)
}

func TestHandler_Update_ValidationDetails(t *testing.T) {
	repo := new(mockRepo)
	body := []byte(`{"timeSurcharges": [{"startTime": "22:00", "endTime": "02:00", "surcharge": 25}]}`)

	w := doRequest(setupRouter(repo), http.MethodPut, "/api/v1/admin/settings", body, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	errInfo := parseResponse(t, w)["error"].(map[string]interface{})
	details := errInfo["details"].(map[string]interface{})
	assert.Contains(t, details["timeSurcharges"], "crosses midnight")
	repo.AssertNotCalled(t, "SaveSettings", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Update_MalformedJSON(t *testing.T) {
	w := doRequest(setupRouter(new(mockRepo)), http.MethodPut, "/api/v1/admin/settings", []byte(`{"minFee":`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_History(t *testing.T) {
	repo := new(mockRepo)
	repo.On("ListHistory", mock.Anything, 2, 4).Return([]HistoryEntry{{Version: 2}, {Version: 1}}, int64(7), nil)

	w := doRequest(setupRouter(repo), http.MethodGet, "/api/v1/admin/settings/history?limit=2&offset=4", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	assert.Len(t, response["data"].([]interface{}), 2)
	meta := response["meta"].(map[string]interface{})
	assert.Equal(t, 7.0, meta["total"])
	assert.Equal(t, 4.0, meta["total_pages"])
	assert.Equal(t, true, meta["has_more"])
}
