package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/cardbinder/cardbinder/internal/config"
	"github.com/cardbinder/cardbinder/internal/database"
	"github.com/cardbinder/cardbinder/internal/services"
	"github.com/cardbinder/cardbinder/tests/helpers"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// TestE2EWithFullStack tests the entire service stack
func TestE2EWithFullStack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	ctx := context.Background()

	tc, err := helpers.CreateAllTestContainers(t)
	if err != nil {
		t.Fatalf("Failed to start test containers: %v", err)
	}
	defer tc.Terminate(t)

	appHost, _ := tc.AppContainer.Host(ctx)
	appPort, _ := tc.AppContainer.MappedPort(ctx, "3000")
	baseURL := fmt.Sprintf("http://%s:%s", appHost, appPort.Port())

	// Wait a bit for everything to stabilize
	time.Sleep(5 * time.Second)

	t.Run("HealthCheck", func(t *testing.T) {
		testHealthCheck(t, tc)
	})

	t.Run("PrometheusMetrics", func(t *testing.T) {
		testPrometheusMetrics(t, baseURL)
	})

	t.Run("SwaggerUI", func(t *testing.T) {
		testSwaggerUI(t, baseURL)
	})

	t.Run("PublicCatalogAccess", func(t *testing.T) {
		testPublicCatalogAccess(t, baseURL)
	})

	t.Run("AuthAndListFlow", func(t *testing.T) {
		testAuthAndListFlow(t, baseURL)
	})
}

func testHealthCheck(t *testing.T, tc *helpers.TestContainers) {
	ctx := context.Background()

	// Point the config at the mapped ports on localhost, not internal
	// container names
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	dbHost, _ := tc.DBContainer.Host(ctx)
	dbPort, _ := tc.DBContainer.MappedPort(ctx, "3306")
	cfg.DBHost = dbHost
	cfg.DBPort = dbPort.Port()

	authzHost, _ := tc.AuthorizerContainer.Host(ctx)
	authzPort, _ := tc.AuthorizerContainer.MappedPort(ctx, "8080")
	cfg.AuthzURL = fmt.Sprintf("http://%s:%s", authzHost, authzPort.Port())

	gormDB, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	defer database.Close(gormDB)

	result := services.HealthCheck(cfg, gormDB)

	if result.Status != "healthy" {
		t.Errorf("Health check failed: %+v", result)
	}

	t.Logf("Health check passed: status=%s, database=%s, identity=%s",
		result.Status, result.Database, result.Identity)
}

func testPrometheusMetrics(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/metrics")
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for metrics, got %d. Body: %s", resp.StatusCode, string(body))
	}

	t.Logf("Metrics endpoint working, found %d bytes of metrics", len(body))
}

func testSwaggerUI(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/swagger/index.html")
	if err != nil {
		t.Fatalf("Failed to get Swagger UI: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for Swagger UI, got %d", resp.StatusCode)
	}
}

func testPublicCatalogAccess(t *testing.T, baseURL string) {
	// Catalog search works without auth and returns the data envelope
	resp, err := http.Get(baseURL + "/api/cards")
	if err != nil {
		t.Fatalf("Failed to access catalog: %v", err)
	}
	helpers.AssertStatus(t, resp, http.StatusOK)

	var envelope struct {
		Data []json.RawMessage      `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	helpers.ParseJSON(t, resp, &envelope)
	if envelope.Meta == nil {
		t.Error("Expected pagination meta on catalog search")
	}
	if resp.Header.Get("Cache-Control") == "" {
		t.Error("Expected Cache-Control on catalog response")
	}

	// Lookups are public too
	resp, err = http.Get(baseURL + "/api/lookups")
	if err != nil {
		t.Fatalf("Failed to access lookups: %v", err)
	}
	helpers.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// Private surfaces reject missing tokens with the error envelope
	resp, err = http.Get(baseURL + "/api/collection")
	if err != nil {
		t.Fatalf("Failed to access collection: %v", err)
	}
	helpers.AssertStatus(t, resp, http.StatusUnauthorized)

	var errEnvelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	helpers.ParseJSON(t, resp, &errEnvelope)
	if errEnvelope.Error.Code != "UNAUTHORIZED" {
		t.Errorf("Expected UNAUTHORIZED code, got %q", errEnvelope.Error.Code)
	}
}

func testAuthAndListFlow(t *testing.T, baseURL string) {
	email := fmt.Sprintf("e2e-%s@example.com", uuid.New().String()[:8])
	password := helpers.GeneratePassword()

	// Register
	token := postAuth(t, baseURL+"/api/auth/register", email, password, http.StatusCreated)
	if token == "" {
		t.Fatal("Expected access token from register")
	}

	// Duplicate register conflicts
	postAuth(t, baseURL+"/api/auth/register", email, password, http.StatusConflict)

	// Create a list and read it back
	listID := createList(t, baseURL, token, "E2E Binder")

	req, _ := http.NewRequest(http.MethodGet, baseURL+"/api/lists", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to get lists: %v", err)
	}
	helpers.AssertStatus(t, resp, http.StatusOK)

	var lists struct {
		Data []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	helpers.ParseJSON(t, resp, &lists)
	if len(lists.Data) != 1 || lists.Data[0].ID != listID {
		t.Errorf("Expected the created list back, got %+v", lists.Data)
	}

	// Profile materializes on first read
	req, _ = http.NewRequest(http.MethodGet, baseURL+"/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	helpers.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// Logout, then the token no longer works
	req, _ = http.NewRequest(http.MethodPost, baseURL+"/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to logout: %v", err)
	}
	helpers.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	req, _ = http.NewRequest(http.MethodGet, baseURL+"/api/lists", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to get lists after logout: %v", err)
	}
	helpers.AssertStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

func postAuth(t *testing.T, url, email, password string, expectStatus int) string {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to post %s: %v", url, err)
	}
	helpers.AssertStatus(t, resp, expectStatus)

	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return ""
	}

	var result struct {
		Data struct {
			Session struct {
				AccessToken string `json:"accessToken"`
			} `json:"session"`
		} `json:"data"`
	}
	helpers.ParseJSON(t, resp, &result)
	return result.Data.Session.AccessToken
}

func createList(t *testing.T, baseURL, token, name string) string {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"name": name})
	req, _ := http.NewRequest(http.MethodPost, baseURL+"/api/lists", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to create list: %v", err)
	}
	helpers.AssertStatus(t, resp, http.StatusCreated)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	helpers.ParseJSON(t, resp, &result)
	return result.Data.ID
}
