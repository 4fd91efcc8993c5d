package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/gymcal/internal/db"
	"github.com/terraincognita07/gymcal/internal/security"
)

const testSecretKey = "test-secret-key-with-at-least-32-characters"

// 2024-01-01 is a Monday.
var testNow = time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)

type testApp struct {
	app   *fiber.App
	token string
}

func newCalendarTestApp(t *testing.T) testApp {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "gymcal-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repos := db.NewRepositories(database)
	user, err := repos.Users.FindOrCreate(context.Background(), "athlete", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	handler, err := NewHandler(testSecretKey, time.UTC, NewDependencies(repos, DependencyOptions{
		Location:    time.UTC,
		HorizonDays: 14,
		Clock:       func() time.Time { return testNow },
	}))
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	token, err := security.IssueDeviceToken([]byte(testSecretKey), user.ID, 0, testNow)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return testApp{app: app, token: token}
}

func (ta testApp) request(t *testing.T, method string, path string, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	if ta.token != "" {
		request.Header.Set("Authorization", "Bearer "+ta.token)
	}

	response, err := ta.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func (ta testApp) expectStatus(t *testing.T, method string, path string, body string, expectedStatus int) *http.Response {
	t.Helper()

	response := ta.request(t, method, path, body)
	if response.StatusCode != expectedStatus {
		payload, _ := io.ReadAll(response.Body)
		t.Fatalf("%s %s expected status %d, got %d: %s", method, path, expectedStatus, response.StatusCode, string(payload))
	}
	return response
}

func decodeJSON(t *testing.T, body io.Reader, target any) {
	t.Helper()

	bytes, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(bytes, target); err != nil {
		t.Fatalf("decode response body %s: %v", string(bytes), err)
	}
}

func readAPIError(t *testing.T, body io.Reader) string {
	t.Helper()

	payload := map[string]string{}
	decodeJSON(t, body, &payload)
	return payload["error"]
}
