package common

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// CheckTimeout bounds every readiness check
const CheckTimeout = 2 * time.Second

// Check probes one dependency
type Check func(ctx context.Context) error

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Timestamp string                 `json:"timestamp"`
	Uptime    string                 `json:"uptime,omitempty"`
	Checks    map[string]CheckStatus `json:"checks,omitempty"`
}

// CheckStatus is the outcome of a single dependency check
type CheckStatus struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Duration string `json:"duration"`
}

var startTime = time.Now()

func healthResponse(status, serviceName, version string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Service:   serviceName,
		Version:   version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	}
}

// HealthCheck returns a health check handler
func HealthCheck(serviceName, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, healthResponse("healthy", serviceName, version))
	}
}

// LivenessProbe reports that the process is serving requests
func LivenessProbe(serviceName, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, healthResponse("alive", serviceName, version))
	}
}

// ReadinessProbe runs every check concurrently and answers 503 when any
// of them fails or exceeds CheckTimeout.
func ReadinessProbe(serviceName, version string, checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		results := make(map[string]CheckStatus, len(checks))
		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)

		for name, check := range checks {
			wg.Add(1)
			go func(name string, check Check) {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(c.Request.Context(), CheckTimeout)
				defer cancel()

				start := time.Now()
				err := check(ctx)
				result := CheckStatus{Status: "healthy", Duration: time.Since(start).String()}
				if err != nil {
					result.Status = "unhealthy"
					result.Message = err.Error()
				}

				mu.Lock()
				results[name] = result
				mu.Unlock()
			}(name, check)
		}
		wg.Wait()

		resp := healthResponse("ready", serviceName, version)
		resp.Checks = results

		statusCode := http.StatusOK
		for _, result := range results {
			if result.Status != "healthy" {
				resp.Status = "not ready"
				statusCode = http.StatusServiceUnavailable
				break
			}
		}

		c.JSON(statusCode, resp)
	}
}
