package common_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/limo-booking/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		fallbackMsg    string
		expectHandled  bool
		expectStatus   int
		expectContains string
	}{
		{
			name:          "nil error returns false",
			err:           nil,
			fallbackMsg:   "failed",
			expectHandled: false,
		},
		{
			name:           "AppError is handled",
			err:            common.NewNotFoundError("quote not found", nil),
			fallbackMsg:    "failed to get quote",
			expectHandled:  true,
			expectStatus:   http.StatusNotFound,
			expectContains: "quote not found",
		},
		{
			name:           "wrapped AppError is unwrapped",
			err:            fmt.Errorf("service: %w", common.NewValidationError("distance tiers overlap")),
			fallbackMsg:    "failed",
			expectHandled:  true,
			expectStatus:   http.StatusBadRequest,
			expectContains: "distance tiers overlap",
		},
		{
			name:           "regular error uses fallback",
			err:            errors.New("database error"),
			fallbackMsg:    "failed to load settings",
			expectHandled:  true,
			expectStatus:   http.StatusInternalServerError,
			expectContains: "failed to load settings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

			handled := common.HandleServiceError(c, tt.err, tt.fallbackMsg)
			assert.Equal(t, tt.expectHandled, handled)

			if tt.expectHandled {
				assert.Equal(t, tt.expectStatus, w.Code)
				assert.Contains(t, w.Body.String(), tt.expectContains)
				assert.NotContains(t, w.Body.String(), "database error")
			}
		})
	}
}

func TestValidationErrorDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/test", nil)

	err := common.NewValidationErrorWithDetails("invalid settings", map[string]string{"distanceTiers": "gap at 40-50"})
	common.HandleServiceError(c, err, "failed")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"distanceTiers":"gap at 40-50"`)
	assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")
}

func TestParseUUIDParam(t *testing.T) {
	validID := uuid.New()

	tests := []struct {
		name     string
		value    string
		expectOK bool
	}{
		{name: "valid", value: validID.String(), expectOK: true},
		{name: "invalid", value: "not-a-uuid", expectOK: false},
		{name: "empty", value: "", expectOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
			c.Params = gin.Params{{Key: "id", Value: tt.value}}

			id, ok := common.ParseUUIDParam(c, "id", "quote ID")
			assert.Equal(t, tt.expectOK, ok)
			if tt.expectOK {
				assert.Equal(t, validID, id)
			} else {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestBindJSON(t *testing.T) {
	type request struct {
		DistanceMeters float64 `json:"distance_meters" binding:"gte=0"`
		PackageID      string  `json:"package_id" binding:"required"`
	}

	tests := []struct {
		name     string
		body     string
		expectOK bool
	}{
		{name: "valid", body: `{"distance_meters": 1200, "package_id": "p1"}`, expectOK: true},
		{name: "missing required", body: `{"distance_meters": 1200}`, expectOK: false},
		{name: "negative distance", body: `{"distance_meters": -1, "package_id": "p1"}`, expectOK: false},
		{name: "malformed", body: `{`, expectOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req request
			ok := common.BindJSON(c, &req)
			require.Equal(t, tt.expectOK, ok)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestReadinessProbe(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]common.Check
		wantStatus int
		wantBody   string
	}{
		{
			name: "all healthy",
			checks: map[string]common.Check{
				"database": func(ctx context.Context) error { return nil },
				"redis":    func(ctx context.Context) error { return nil },
			},
			wantStatus: http.StatusOK,
			wantBody:   `"status":"ready"`,
		},
		{
			name: "dependency down",
			checks: map[string]common.Check{
				"database": func(ctx context.Context) error { return nil },
				"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "connection refused",
		},
		{
			name: "check honours its deadline",
			checks: map[string]common.Check{
				"database": func(ctx context.Context) error {
					_, ok := ctx.Deadline()
					if !ok {
						return errors.New("no deadline")
					}
					return nil
				},
			},
			wantStatus: http.StatusOK,
			wantBody:   `"database":{"status":"healthy"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health/ready", common.ReadinessProbe("pricing", "1.0.0", tt.checks))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
