//go:build load
// +build load

package load

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	baseURL        = "http://localhost:8080"
	targetRPS      = 5
	duration       = 30 * time.Second
	maxLatencyP99  = 300 * time.Millisecond
	minSuccessRate = 0.999 // 99.9%
	// RPS tolerance: allow ±10% deviation from target
	rpsTolerance = 0.1
)

type metrics struct {
	totalRequests   int
	successRequests int
	errorRequests   int
	latencies       []time.Duration
}

func clientHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "load-user-1")
	req.Header.Set("X-User-Role", "client")
	req.Header.Set("X-Client-Id", "load-client-1")
}

func memberHeaders(req *http.Request, memberID string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "load-user-"+memberID)
	req.Header.Set("X-User-Role", "team-member")
	req.Header.Set("X-Member-Id", memberID)
}

func requireHealthy(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		t.Fatalf("Server is not running at %s. Please start the server first with: docker-compose up\nError: %v", baseURL, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Server health check failed with status %d", resp.StatusCode)
	}
}

func TestLoad_CreateProject(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping load test in short mode")
	}

	requireHealthy(t)

	loadClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	metrics := &metrics{
		latencies: make([]time.Duration, 0),
	}

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	interval := time.Second / time.Duration(targetRPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			goto done
		case <-ticker.C:
			reqStart := time.Now()

			reqBody := map[string]string{
				"title":       fmt.Sprintf("load-project-%d", time.Now().UnixNano()),
				"description": "Load test project",
			}

			body, _ := json.Marshal(reqBody)
			req, _ := http.NewRequest("POST", baseURL+"/projects", bytes.NewBuffer(body))
			clientHeaders(req)

			resp, err := loadClient.Do(req)
			latency := time.Since(reqStart)
			metrics.latencies = append(metrics.latencies, latency)
			metrics.totalRequests++

			if err != nil {
				metrics.errorRequests++
				if metrics.errorRequests <= 3 {
					t.Logf("Request error: %v", err)
				}
				continue
			}

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				metrics.successRequests++
			} else {
				metrics.errorRequests++
				if metrics.errorRequests <= 3 {
					body, _ := io.ReadAll(resp.Body)
					t.Logf("Request failed: status=%d, body=%s", resp.StatusCode, string(body))
					resp.Body.Close()
				} else {
					resp.Body.Close()
				}
				continue
			}
			resp.Body.Close()
		}
	}

done:
	elapsed := time.Since(start)
	printMetrics(t, "CreateProject", metrics, elapsed)
	validateMetrics(t, metrics, elapsed)
}

func TestLoad_SubmitBid(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping load test in short mode")
	}

	requireHealthy(t)

	// Setup: create and publish a project to bid on.
	projectID := setupPublishedProject(t)

	loadClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	metrics := &metrics{
		latencies: make([]time.Duration, 0),
	}

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	interval := time.Second / time.Duration(targetRPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	seq := 0

	for {
		select {
		case <-ctx.Done():
			goto done
		case <-ticker.C:
			reqStart := time.Now()
			seq++

			reqBody := map[string]any{
				"proposal": "Load test bid",
				"price":    100,
			}

			body, _ := json.Marshal(reqBody)
			req, _ := http.NewRequest("POST", baseURL+"/projects/"+projectID+"/bids", bytes.NewBuffer(body))
			// A fresh member each time: one bid per member per project.
			memberHeaders(req, fmt.Sprintf("load-member-%d-%d", start.UnixNano(), seq))

			resp, err := loadClient.Do(req)
			latency := time.Since(reqStart)
			metrics.latencies = append(metrics.latencies, latency)
			metrics.totalRequests++

			if err != nil {
				metrics.errorRequests++
				continue
			}

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				metrics.successRequests++
			} else {
				metrics.errorRequests++
			}
			resp.Body.Close()
		}
	}

done:
	elapsed := time.Since(start)
	printMetrics(t, "SubmitBid", metrics, elapsed)
	validateMetrics(t, metrics, elapsed)
}

func TestLoad_GetProject(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping load test in short mode")
	}

	requireHealthy(t)

	projectID := setupPublishedProject(t)

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	metrics := &metrics{
		latencies: make([]time.Duration, 0),
	}

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	interval := time.Second / time.Duration(targetRPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			goto done
		case <-ticker.C:
			reqStart := time.Now()

			req, _ := http.NewRequest("GET", baseURL+"/projects/"+projectID, nil)
			clientHeaders(req)

			resp, err := client.Do(req)
			latency := time.Since(reqStart)
			metrics.latencies = append(metrics.latencies, latency)
			metrics.totalRequests++

			if err != nil {
				metrics.errorRequests++
				if metrics.totalRequests <= 3 {
					t.Logf("Request error: %v", err)
				}
				continue
			}

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				metrics.successRequests++
			} else {
				metrics.errorRequests++
				if metrics.errorRequests <= 3 {
					body, _ := io.ReadAll(resp.Body)
					t.Logf("Request failed: status=%d, body=%s", resp.StatusCode, string(body))
					resp.Body.Close()
				} else {
					resp.Body.Close()
				}
				continue
			}
			resp.Body.Close()
		}
	}

done:
	elapsed := time.Since(start)
	printMetrics(t, "GetProject", metrics, elapsed)
	validateMetrics(t, metrics, elapsed)
}

// setupPublishedProject creates a published project owned by the load client.
func setupPublishedProject(t *testing.T) string {
	client := &http.Client{Timeout: 5 * time.Second}

	reqBody := map[string]string{
		"title":       fmt.Sprintf("load-setup-%d", time.Now().UnixNano()),
		"description": "Load test setup project",
	}

	body, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", baseURL+"/projects", bytes.NewBuffer(body))
	clientHeaders(req)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Project struct {
			ProjectID string `json:"project_id"`
		} `json:"project"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	publishBody, _ := json.Marshal(map[string]string{"action": "publish"})
	pubReq, _ := http.NewRequest("PATCH", baseURL+"/projects/"+created.Project.ProjectID, bytes.NewBuffer(publishBody))
	clientHeaders(pubReq)

	pubResp, err := client.Do(pubReq)
	require.NoError(t, err)
	pubResp.Body.Close()
	require.Equal(t, http.StatusOK, pubResp.StatusCode)

	return created.Project.ProjectID
}

func printMetrics(t *testing.T, testName string, m *metrics, elapsed time.Duration) {
	if len(m.latencies) == 0 {
		return
	}

	// Calculate percentiles
	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sortDurations(sorted)

	p50 := sorted[len(sorted)*50/100]
	p95 := sorted[len(sorted)*95/100]
	p99 := sorted[len(sorted)*99/100]
	p999 := sorted[len(sorted)*999/1000]

	avgLatency := time.Duration(0)
	for _, lat := range m.latencies {
		avgLatency += lat
	}
	avgLatency /= time.Duration(len(m.latencies))

	successRate := float64(m.successRequests) / float64(m.totalRequests)
	actualRPS := float64(m.totalRequests) / elapsed.Seconds()

	t.Logf("\n=== Load Test Results: %s ===", testName)
	t.Logf("Duration: %v", elapsed)
	t.Logf("Total Requests: %d", m.totalRequests)
	t.Logf("Success Requests: %d", m.successRequests)
	t.Logf("Error Requests: %d", m.errorRequests)
	t.Logf("Success Rate: %.4f%%", successRate*100)
	t.Logf("Actual RPS: %.2f", actualRPS)
	t.Logf("Average Latency: %v", avgLatency)
	t.Logf("P50 Latency: %v", p50)
	t.Logf("P95 Latency: %v", p95)
	t.Logf("P99 Latency: %v", p99)
	t.Logf("P99.9 Latency: %v", p999)
}

func validateMetrics(t *testing.T, m *metrics, elapsed time.Duration) {
	if len(m.latencies) == 0 {
		return
	}

	successRate := float64(m.successRequests) / float64(m.totalRequests)

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sortDurations(sorted)
	p99 := sorted[len(sorted)*99/100]

	// Calculate actual RPS
	actualRPS := float64(m.totalRequests) / elapsed.Seconds()
	minRPS := float64(targetRPS) * (1 - rpsTolerance)
	maxRPS := float64(targetRPS) * (1 + rpsTolerance)

	require.GreaterOrEqual(t, successRate, minSuccessRate,
		"Success rate %.4f%% is below required %.4f%%", successRate*100, minSuccessRate*100)

	require.LessOrEqual(t, p99, maxLatencyP99,
		"P99 latency %v exceeds maximum %v", p99, maxLatencyP99)

	require.GreaterOrEqual(t, actualRPS, minRPS,
		"Actual RPS %.2f is below minimum %.2f (target: %.2f)", actualRPS, minRPS, float64(targetRPS))

	require.LessOrEqual(t, actualRPS, maxRPS,
		"Actual RPS %.2f exceeds maximum %.2f (target: %.2f)", actualRPS, maxRPS, float64(targetRPS))
}

func sortDurations(durations []time.Duration) {
	sort.Slice(durations, func(i, j int) bool {
		return durations[i] < durations[j]
	})
}
