package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"maha-evoting/internal/adapters/persistence/models"
	"maha-evoting/internal/config"
	"maha-evoting/internal/pkg/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "routes-test-secret"

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		AppMode:   "dev",
		Port:      "3000",
		Identity:  config.IdentityConfig{SessionSecret: testSecret},
		Dashboard: config.DashboardConfig{TurnoutBaseline: 100},
	}

	app := fiber.New()
	Setup(app, db, cfg)
	return app, db
}

func bearer(t *testing.T, subjectID, role string) string {
	t.Helper()
	token, err := identity.GenerateSessionToken(subjectID, "Test "+role, subjectID+"@example.com", role, testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, app *fiber.App, method, target, auth string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestPublicElectionListing(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/elections", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
}

func TestElectionAdminGuards(t *testing.T) {
	app, _ := setupApp(t)

	payload := fiber.Map{
		"title":     "Pune Assembly",
		"region":    "Pune",
		"startDate": "2026-09-01",
		"endDate":   "2026-09-02",
	}

	t.Run("no token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/elections/", "", payload)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("voter token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/elections/", bearer(t, "sub-voter", "voter"), payload)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/elections/", bearer(t, "sub-admin", "admin"), payload)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})
}

func TestVotingOverHTTP(t *testing.T) {
	app, db := setupApp(t)
	admin := bearer(t, "sub-admin", "admin")
	voter := bearer(t, "sub-voter", "voter")

	// Admin sets up an active Pune election with one candidate.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/elections/", admin, fiber.Map{
		"title":     "Pune Assembly",
		"region":    "Pune",
		"startDate": time.Now().Add(-time.Hour).Format(time.RFC3339),
		"endDate":   time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/elections/1/candidates", admin, fiber.Map{
		"name":  "Asha Patil",
		"party": "Lotus Front",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/api/v1/elections/1/activate", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Voter enrolls.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/users/sync", voter, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/users/complete-profile", voter, fiber.Map{
		"fullName":    "Asha Kulkarni",
		"email":       "asha@example.com",
		"phone":       "9876543210",
		"dateOfBirth": "1990-05-15",
		"voterId":     "MH12345678",
		"aadharCard":  "123456789012",
		"district":    "Pune",
		"taluka":      "Haveli",
		"city":        "Pune",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var candidate models.Candidate
	require.NoError(t, db.First(&candidate).Error)

	// Admins may not vote.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/elections/1/vote", admin, fiber.Map{
		"candidateId": candidate.CandidateID,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// First ballot counts.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/elections/1/vote", voter, fiber.Map{
		"candidateId": candidate.CandidateID,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Second ballot conflicts.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/elections/1/vote", voter, fiber.Map{
		"candidateId": candidate.CandidateID,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Declare and read the winner back through the public surface.
	resp = doJSON(t, app, http.MethodPut, "/api/v1/elections/1/declare-winner", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/results/declared", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	results := body["data"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "Asha Patil (Lotus Front)", results[0].(map[string]interface{})["winner"])
}

func TestDashboardRequiresAdmin(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/dashboard/overview", bearer(t, "sub-voter", "voter"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/dashboard/overview", bearer(t, "sub-admin", "admin"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
