//go:build e2e
// +build e2e

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/docker/docker/client"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/teamlance/engagements/internal/auth"
	bidModel "github.com/teamlance/engagements/internal/bid/model"
	cancellationModel "github.com/teamlance/engagements/internal/cancellation/model"
	projectModel "github.com/teamlance/engagements/internal/project/model"
)

// identity is the set of trusted headers attached to every request.
type identity map[string]string

func asClient(clientID string) identity {
	return identity{
		auth.HeaderUserID:   "user-" + clientID,
		auth.HeaderUserRole: string(auth.RoleClient),
		auth.HeaderClientID: clientID,
	}
}

func asMember(memberID string) identity {
	return identity{
		auth.HeaderUserID:   "user-" + memberID,
		auth.HeaderUserRole: string(auth.RoleMember),
		auth.HeaderMemberID: memberID,
	}
}

func asAdmin() identity {
	return identity{
		auth.HeaderUserID:   "admin-1",
		auth.HeaderUserRole: string(auth.RoleAdmin),
	}
}

// E2ETestSuite contains test infrastructure
type E2ETestSuite struct {
	suite.Suite
	ctx              context.Context
	pgContainer      *postgres.PostgresContainer
	db               *gorm.DB
	appContainer     testcontainers.Container
	baseURL          string
	httpClient       *http.Client
	connectionString string
}

// SetupSuite runs once before all tests
func (s *E2ETestSuite) SetupSuite() {
	s.ctx = context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(s.ctx,
		"postgres:12-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(s.T(), err, "failed to start PostgreSQL container")
	s.pgContainer = pgContainer

	// Get connection string
	connStr, err := pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "failed to get connection string")
	s.connectionString = connStr

	// Connect to database (for test assertions only)
	// Migrations will be applied by the application container on startup
	db, err := gorm.Open(postgresDriver.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "failed to connect to database")
	s.db = db

	// Get PostgreSQL container's internal IP address for inter-container
	// communication; the mapped host/port only works from the test host.
	containerName, err := pgContainer.Name(s.ctx)
	require.NoError(s.T(), err, "failed to get PostgreSQL container name")

	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	require.NoError(s.T(), err, "failed to create Docker client")
	defer dockerClient.Close()

	containerNameClean := strings.TrimPrefix(containerName, "/")
	containerInfo, err := dockerClient.ContainerInspect(s.ctx, containerNameClean)
	require.NoError(s.T(), err, "failed to inspect PostgreSQL container")

	var dbHost string
	var dbPort = "5432"
	if len(containerInfo.NetworkSettings.Networks) > 0 {
		for _, network := range containerInfo.NetworkSettings.Networks {
			dbHost = network.IPAddress
			break
		}
	}
	if dbHost == "" {
		dbHost = containerNameClean
	}

	// Start application container from a pre-built image so each suite run
	// doesn't rebuild the binary.
	appContainer, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "engagements-e2e:test",
			ExposedPorts: []string{"8080/tcp"},
			Env: map[string]string{
				"DB_HOST":                dbHost,
				"DB_PORT":                dbPort,
				"DB_USER":                "testuser",
				"DB_PASSWORD":            "testpass",
				"DB_NAME":                "testdb",
				"DB_SSLMODE":             "disable",
				"DB_TIMEZONE":            "UTC",
				"DB_RETRY_MAX_ATTEMPTS":  "5",
				"DB_RETRY_INITIAL_DELAY": "1s",
				"DB_RETRY_MAX_DELAY":     "30s",
				"DB_RETRY_MULTIPLIER":    "2.0",
				"SERVER_HOST":            "",
				"SERVER_PORT":            ":8080",
				"SERVER_READ_TIMEOUT":    "10s",
				"SERVER_WRITE_TIMEOUT":   "10s",
				"SERVER_IDLE_TIMEOUT":    "120s",
				"GIN_MODE":               "release",
				"LOG_LEVEL":              "info",
				"LOG_FORMAT":             "json",
				"LOG_OUTPUT":             "stdout",
				"MIGRATIONS_PATH":        "migrations",
			},
			WaitingFor: wait.ForHTTP("/health").
				WithPort("8080/tcp").
				WithStartupTimeout(120 * time.Second).
				WithPollInterval(2 * time.Second),
		},
		Started: true,
	})
	require.NoError(s.T(), err, "failed to start application container")
	s.appContainer = appContainer

	host, err := appContainer.Host(s.ctx)
	require.NoError(s.T(), err, "failed to get container host")

	port, err := appContainer.MappedPort(s.ctx, "8080")
	require.NoError(s.T(), err, "failed to get container port")

	s.baseURL = fmt.Sprintf("http://%s:%s", host, port.Port())
	s.httpClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	s.waitForApp()
	s.verifyMigrations()
}

// TearDownSuite runs once after all tests
func (s *E2ETestSuite) TearDownSuite() {
	if s.appContainer != nil {
		_ = s.appContainer.Terminate(s.ctx)
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(s.ctx)
	}
}

// SetupTest runs before each test
func (s *E2ETestSuite) SetupTest() {
	s.cleanDatabase()
}

// cleanDatabase truncates all tables
func (s *E2ETestSuite) cleanDatabase() {
	s.db.Exec("TRUNCATE TABLE cancellation_votes CASCADE")
	s.db.Exec("TRUNCATE TABLE cancellation_requests CASCADE")
	s.db.Exec("TRUNCATE TABLE requirements CASCADE")
	s.db.Exec("TRUNCATE TABLE bids CASCADE")
	s.db.Exec("TRUNCATE TABLE projects CASCADE")
}

// waitForApp waits for the application to be ready
func (s *E2ETestSuite) waitForApp() {
	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		resp, err := s.httpClient.Get(s.baseURL + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(1 * time.Second)
	}
	s.T().Fatal("application did not become ready in time")
}

// verifyMigrations checks if database migrations were applied successfully
func (s *E2ETestSuite) verifyMigrations() {
	tables := []string{"projects", "bids", "requirements", "cancellation_requests", "cancellation_votes"}
	for _, table := range tables {
		var exists bool
		err := s.db.Raw(`
			SELECT EXISTS (
				SELECT FROM information_schema.tables
				WHERE table_schema = 'public'
				AND table_name = ?
			)`, table).Scan(&exists).Error
		require.NoError(s.T(), err, "failed to check table %s", table)
		require.True(s.T(), exists, "table %s does not exist; migrations were not applied", table)
	}
}

// Helper methods for HTTP requests

// doRequest performs an HTTP request as the given identity.
func (s *E2ETestSuite) doRequest(method, path string, who identity, payload any) (*http.Response, []byte) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(s.T(), err, "failed to marshal request body")
		body = strings.NewReader(string(data))
	}

	req, err := http.NewRequest(method, s.baseURL+path, body)
	require.NoError(s.T(), err, "failed to create request")
	req.Header.Set("Content-Type", "application/json")
	for k, v := range who {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err, "failed to read response body")
	resp.Body.Close()

	return resp, respBody
}

// doRequestNoFail performs an HTTP request and returns an error instead of
// failing the test. Safe to use in goroutines.
func (s *E2ETestSuite) doRequestNoFail(method, path string, who identity, payload any) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = strings.NewReader(string(data))
	}

	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range who {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return resp, nil, err
	}

	return resp, respBody, nil
}

// createProject creates a project via HTTP API
func (s *E2ETestSuite) createProject(who identity, req *projectModel.CreateProjectRequest) (*http.Response, *projectModel.ProjectResponse) {
	resp, respBody := s.doRequest("POST", "/projects", who, req)
	if resp.StatusCode != http.StatusCreated {
		return resp, nil
	}

	var result struct {
		Project projectModel.ProjectResponse `json:"project"`
	}
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal project response")

	return resp, &result.Project
}

// projectAction performs a lifecycle action via PATCH /projects/:id
func (s *E2ETestSuite) projectAction(who identity, projectID, action string) (*http.Response, *projectModel.ProjectResponse) {
	resp, respBody := s.doRequest("PATCH", "/projects/"+projectID, who, map[string]any{"action": action})
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	var result struct {
		Project projectModel.ProjectResponse `json:"project"`
	}
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal project response")

	return resp, &result.Project
}

// getProject fetches a project via HTTP API
func (s *E2ETestSuite) getProject(who identity, projectID string) (*http.Response, *projectModel.ProjectResponse) {
	resp, respBody := s.doRequest("GET", "/projects/"+projectID, who, nil)
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	var result struct {
		Project projectModel.ProjectResponse `json:"project"`
	}
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal project response")

	return resp, &result.Project
}

// submitBid submits a bid via HTTP API
func (s *E2ETestSuite) submitBid(who identity, projectID string, req *bidModel.SubmitBidRequest) (*http.Response, *bidModel.BidResponse) {
	resp, respBody := s.doRequest("POST", fmt.Sprintf("/projects/%s/bids", projectID), who, req)
	if resp.StatusCode != http.StatusCreated {
		return resp, nil
	}

	var result struct {
		Bid bidModel.BidResponse `json:"bid"`
	}
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal bid response")

	return resp, &result.Bid
}

// ownerBidAction accepts or resends a bid via HTTP API
func (s *E2ETestSuite) ownerBidAction(who identity, projectID, bidID, action string, amount float64) (*http.Response, *bidModel.BidResponse) {
	resp, respBody := s.doRequest("PATCH", fmt.Sprintf("/projects/%s/bids", projectID), who, map[string]any{
		"bid_id": bidID,
		"action": action,
		"amount": amount,
	})
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	var result struct {
		Bid bidModel.BidResponse `json:"bid"`
	}
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal bid response")

	return resp, &result.Bid
}

// respondToBid confirms or declines an accepted bid via HTTP API
func (s *E2ETestSuite) respondToBid(who identity, projectID, bidID string, accept bool) (*http.Response, *bidModel.RespondResponse) {
	resp, respBody := s.doRequest("POST", fmt.Sprintf("/projects/%s/bids/%s/respond", projectID, bidID), who, map[string]any{
		"accept": accept,
	})
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	var result bidModel.RespondResponse
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal respond response")

	return resp, &result
}

// hire walks a member through bid, accept, and confirmation.
func (s *E2ETestSuite) hire(client identity, projectID string, member identity, price float64) string {
	resp, bid := s.submitBid(member, projectID, &bidModel.SubmitBidRequest{
		Proposal: "I can build this",
		Price:    price,
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode, "bid submission failed")

	resp, _ = s.ownerBidAction(client, projectID, bid.BidID, "accept", price)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, "bid acceptance failed")

	resp, _ = s.respondToBid(member, projectID, bid.BidID, true)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, "bid confirmation failed")

	return bid.BidID
}

// finishWork toggles a member's finished flag via HTTP API
func (s *E2ETestSuite) finishWork(who identity, projectID string) (*http.Response, map[string]any) {
	resp, respBody := s.doRequest("POST", fmt.Sprintf("/projects/%s/finish-work", projectID), who, nil)
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	var result map[string]any
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal finish-work response")

	return resp, result
}

// voteOnCancellation casts a consensus vote via HTTP API
func (s *E2ETestSuite) voteOnCancellation(who identity, projectID, choice, comment string) (*http.Response, *cancellationModel.RequestResponse) {
	resp, respBody := s.doRequest("POST", fmt.Sprintf("/projects/%s/cancellation-request/vote", projectID), who, map[string]any{
		"choice":  choice,
		"comment": comment,
	})
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	var result struct {
		Request cancellationModel.RequestResponse `json:"request"`
	}
	err := json.Unmarshal(respBody, &result)
	require.NoError(s.T(), err, "failed to unmarshal cancellation response")

	return resp, &result.Request
}

// parseErrorResponse parses error response
func (s *E2ETestSuite) parseErrorResponse(respBody []byte) (string, string) {
	var errResp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	err := json.Unmarshal(respBody, &errResp)
	require.NoError(s.T(), err, "failed to unmarshal error response")
	return errResp.Error.Code, errResp.Error.Message
}

// getAppLogs retrieves application container logs
func (s *E2ETestSuite) getAppLogs() string {
	if s.appContainer == nil {
		return ""
	}

	logs, err := s.appContainer.Logs(s.ctx)
	if err != nil {
		return fmt.Sprintf("Failed to get logs: %v", err)
	}
	defer logs.Close()

	logBytes, err := io.ReadAll(logs)
	if err != nil {
		return fmt.Sprintf("Failed to read logs: %v", err)
	}

	return string(logBytes)
}
