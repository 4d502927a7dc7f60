package routes_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/whale-spotting/whale_spotting/internal/config"
	"github.com/whale-spotting/whale_spotting/internal/logging"
	"github.com/whale-spotting/whale_spotting/internal/server"
)

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{
		AppName:        "WhaleSpotting",
		AppEnv:         "development",
		Port:           "0",
		JWTSecret:      "test-secret-do-not-use",
		JWTIssuer:      "whale-spotting",
		JWTAudience:    "whale-spotting-frontend",
		TokenTTL:       time.Hour,
		ClockSkew:      30 * time.Second,
		AllowedOrigin:  "http://localhost:5173",
		BcryptCost:     bcrypt.MinCost,
		ShutdownPeriod: time.Second,
		AdminUsername:  "admin",
		AdminPassword:  "admin-password",
	}

	srv, err := server.New(cfg, nil, nil, logging.Discard())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	return srv.App()
}

func doJSON(t *testing.T, app *fiber.App, method, path, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, raw)
		}
	}
	return resp, decoded
}

func doJSONList(t *testing.T, app *fiber.App, path, token string) (*http.Response, []map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test GET %s: %v", path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded []map[string]any
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode GET %s: %v (%s)", path, err, raw)
		}
	}
	return resp, decoded
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/auth/login", "",
		`{"username":"`+username+`","password":"`+password+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", username, resp.StatusCode)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("login %s: no token in response %v", username, body)
	}
	return token
}

func TestRegisterLoginAndReportSighting(t *testing.T) {
	app := newTestServer(t)

	// Admin seeds the reference data.
	adminToken := login(t, app, "admin", "admin-password")
	resp, speciesBody := doJSON(t, app, http.MethodPost, "/species", adminToken, `{"name":"Orca"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create species: expected 201, got %d", resp.StatusCode)
	}
	speciesID := speciesBody["id"].(string)

	resp, hotspotBody := doJSON(t, app, http.MethodPost, "/hotspots", adminToken,
		`{"name":"Monterey Bay","latitude":36.8,"longitude":-121.9}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create hotspot: expected 201, got %d", resp.StatusCode)
	}
	hotspotID := hotspotBody["id"].(string)

	// Register and log in.
	resp, userBody := doJSON(t, app, http.MethodPost, "/auth/register", "",
		`{"username":"alice","password":"password1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	if _, hasHash := userBody["passwordHash"]; hasHash {
		t.Fatal("registration response leaks the password hash")
	}
	aliceID := userBody["id"].(string)
	aliceToken := login(t, app, "alice", "password1")

	// Report a sighting and read it back.
	resp, sightingBody := doJSON(t, app, http.MethodPost, "/sightings", aliceToken,
		`{"speciesId":"`+speciesID+`","hotspotId":"`+hotspotID+`","notes":"breaching twice"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create sighting: expected 201, got %d", resp.StatusCode)
	}
	sightingID := sightingBody["id"].(string)

	resp, got := doJSON(t, app, http.MethodGet, "/sightings/"+sightingID, "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get sighting: expected 200, got %d", resp.StatusCode)
	}
	if got["speciesId"] != speciesID || got["hotspotId"] != hotspotID || got["userId"] != aliceID {
		t.Fatalf("sighting references mismatch: %v", got)
	}
}

func TestRegisterDuplicateUsernameConflict(t *testing.T) {
	app := newTestServer(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/auth/register", "", `{"username":"alice","password":"password1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/register", "", `{"username":"alice","password":"password2"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	app := newTestServer(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/auth/register", "", `{"username":"alice","password":"password1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, app, http.MethodPost, "/auth/login", "", `{"username":"alice","password":"wrong"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if _, hasToken := body["token"]; hasToken {
		t.Fatal("failed login must not return a token")
	}
}

func TestCreateSightingRequiresToken(t *testing.T) {
	app := newTestServer(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/sightings", "", `{"speciesId":"x","hotspotId":"y"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCreateSightingUnknownHotspot(t *testing.T) {
	app := newTestServer(t)

	adminToken := login(t, app, "admin", "admin-password")
	resp, speciesBody := doJSON(t, app, http.MethodPost, "/species", adminToken, `{"name":"Orca"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create species: expected 201, got %d", resp.StatusCode)
	}
	speciesID := speciesBody["id"].(string)

	resp, _ = doJSON(t, app, http.MethodPost, "/sightings", adminToken,
		`{"speciesId":"`+speciesID+`","hotspotId":"a4c135c0-8b39-4995-b4bb-6969df9f2ba5"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown hotspot, got %d", resp.StatusCode)
	}

	resp, sightings := doJSONList(t, app, "/sightings", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list sightings: expected 200, got %d", resp.StatusCode)
	}
	if len(sightings) != 0 {
		t.Fatalf("expected no sightings after failed create, got %d", len(sightings))
	}
}

func TestAdminRoutesForbiddenForMembers(t *testing.T) {
	app := newTestServer(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/auth/register", "", `{"username":"alice","password":"password1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	aliceToken := login(t, app, "alice", "password1")

	resp, _ = doJSONList(t, app, "/users", aliceToken)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for member on GET /users, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, http.MethodPost, "/species", aliceToken, `{"name":"Orca"}`)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for member on POST /species, got %d", resp.StatusCode)
	}

	// No side effect from the forbidden write.
	resp, species := doJSONList(t, app, "/species", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list species: expected 200, got %d", resp.StatusCode)
	}
	if len(species) != 0 {
		t.Fatalf("expected no species created, got %d", len(species))
	}
}

func TestAdminUserManagement(t *testing.T) {
	app := newTestServer(t)
	adminToken := login(t, app, "admin", "admin-password")

	resp, userBody := doJSON(t, app, http.MethodPost, "/auth/register", "", `{"username":"alice","password":"password1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	aliceID := userBody["id"].(string)

	resp, users := doJSONList(t, app, "/users", adminToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list users: expected 200, got %d", resp.StatusCode)
	}
	if len(users) != 2 {
		t.Fatalf("expected admin and alice, got %d users", len(users))
	}

	resp, updated := doJSON(t, app, http.MethodPatch, "/users/"+aliceID+"/profile-image", adminToken,
		`{"profileImageUrl":"https://img.example/whale.png"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update profile image: expected 200, got %d", resp.StatusCode)
	}
	if updated["profileImageUrl"] != "https://img.example/whale.png" {
		t.Fatalf("profile image not updated: %v", updated)
	}

	resp, _ = doJSON(t, app, http.MethodDelete, "/users/"+aliceID, adminToken, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete user: expected 204, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, http.MethodDelete, "/users/"+aliceID, adminToken, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestPublicReadsAndMonths(t *testing.T) {
	app := newTestServer(t)

	resp, species := doJSONList(t, app, "/species", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /species: expected 200, got %d", resp.StatusCode)
	}
	if len(species) != 0 {
		t.Fatalf("expected empty species list, got %d", len(species))
	}

	resp, hotspots := doJSONList(t, app, "/hotspots?search=bay", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /hotspots: expected 200, got %d", resp.StatusCode)
	}
	if len(hotspots) != 0 {
		t.Fatalf("expected empty hotspot list, got %d", len(hotspots))
	}

	resp, months := doJSONList(t, app, "/months", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /months: expected 200, got %d", resp.StatusCode)
	}
	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/sightings/missing-id", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown sighting, got %d", resp.StatusCode)
	}
}
