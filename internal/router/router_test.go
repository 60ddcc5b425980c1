package router

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/server/internal/config"
	"github.com/volunteerhub/server/internal/handler"
	"github.com/volunteerhub/server/internal/repository"
)

const testSecret = "router-test-secret"

var routerSchema = []string{
	`DROP TABLE IF EXISTS sponsorships`,
	`DROP TABLE IF EXISTS event_registrations`,
	`DROP TABLE IF EXISTS events`,
	`DROP TABLE IF EXISTS users`,
	`CREATE TABLE users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role ENUM('individual','university_club','company','ministry') NOT NULL,
		organization_name VARCHAR(255) NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,
	`CREATE TABLE events (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		location VARCHAR(255) NOT NULL,
		date DATE NOT NULL,
		max_volunteers BIGINT NOT NULL,
		description TEXT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,
	`CREATE TABLE event_registrations (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		event_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		volunteer_count BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (event_id) REFERENCES events(id),
		FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE sponsorships (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		event_id BIGINT UNSIGNED NOT NULL,
		company_id BIGINT UNSIGNED NOT NULL,
		sponsorship_amount DOUBLE NOT NULL,
		description TEXT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (event_id) REFERENCES events(id),
		FOREIGN KEY (company_id) REFERENCES users(id)
	) ENGINE=InnoDB`,
}

// newTestServer wires the full stack (router, middleware, handlers,
// repositories) against a throwaway schema.  Skipped unless
// TEST_DATABASE_DSN points at a MySQL instance the test may truncate.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	for _, stmt := range routerSchema {
		if _, err := db.ExecContext(context.Background(), stmt); err != nil {
			t.Fatalf("schema: %v", err)
		}
	}

	cfg := config.Config{JWTSecret: testSecret, AccessTTLMin: 30, BcryptCost: 4}
	users := repository.NewUserRepo(db)
	events := repository.NewEventRepo(db)
	sponsorships := repository.NewSponsorshipRepo(db)

	e := echo.New()
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret, passthrough)
	RegisterEvents(e,
		handler.NewEventHandler(events),
		handler.NewSponsorshipHandler(sponsorships, events, users),
		cfg.JWTSecret,
		passthrough,
	)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var out map[string]any
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: bad json: %v", method, path, err)
		}
	}
	return rec.Code, out
}

func signup(t *testing.T, e *echo.Echo, userType, name, email, org string) {
	t.Helper()
	body := `{"user_type":"` + userType + `","name":"` + name + `","email":"` + email + `","password":"secret123"`
	if org != "" {
		body += `,"organization_name":"` + org + `"`
	}
	body += `}`
	code, resp := do(t, e, http.MethodPost, "/v1/auth/register", "", body)
	if code != http.StatusCreated {
		t.Fatalf("register %s: status %d (%v)", email, code, resp)
	}
}

func login(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()
	code, resp := do(t, e, http.MethodPost, "/v1/auth/login", "",
		`{"email":"`+email+`","password":"secret123"}`)
	if code != http.StatusOK {
		t.Fatalf("login %s: status %d (%v)", email, code, resp)
	}
	token, _ := resp["access_token"].(string)
	if token == "" {
		t.Fatalf("login %s: no access_token in %v", email, resp)
	}
	return token
}

func TestEventLifecycle(t *testing.T) {
	e := newTestServer(t)

	signup(t, e, "ministry", "Alice", "alice@gov.example", "")
	signup(t, e, "individual", "Bob", "bob@example.com", "")
	signup(t, e, "company", "Acme", "acme@example.com", "Acme Corp")
	signup(t, e, "company", "Globex", "globex@example.com", "")
	ministry := login(t, e, "alice@gov.example")
	bob := login(t, e, "bob@example.com")
	acme := login(t, e, "acme@example.com")
	globex := login(t, e, "globex@example.com")

	// Ministry creates an event with room for 50 volunteers.
	code, ev := do(t, e, http.MethodPost, "/v1/events", ministry,
		`{"title":"Beach Cleanup","location":"Shoreline","date":"2026-10-03","max_volunteers":50}`)
	if code != http.StatusCreated {
		t.Fatalf("create event: status %d (%v)", code, ev)
	}
	if got := ev["current_volunteers"].(float64); got != 0 {
		t.Errorf("new event current_volunteers = %v, want 0", got)
	}
	if got := ev["max_volunteers"].(float64); got != 50 {
		t.Errorf("new event max_volunteers = %v, want 50", got)
	}

	// A volunteer cannot create events.
	if code, _ := do(t, e, http.MethodPost, "/v1/events", bob,
		`{"title":"x","location":"y","date":"2026-10-03","max_volunteers":1}`); code != http.StatusForbidden {
		t.Errorf("volunteer create event: status %d, want 403", code)
	}

	// Over-capacity registration is refused and changes nothing.
	if code, resp := do(t, e, http.MethodPost, "/v1/events/1/register", bob,
		`{"volunteer_count":60}`); code != http.StatusBadRequest {
		t.Errorf("over-capacity register: status %d (%v), want 400", code, resp)
	}

	// A fitting registration debits the remaining capacity.
	if code, resp := do(t, e, http.MethodPost, "/v1/events/1/register", bob,
		`{"volunteer_count":10}`); code != http.StatusCreated {
		t.Fatalf("register: status %d (%v)", code, resp)
	}
	code, _ = do(t, e, http.MethodGet, "/v1/events", "", "")
	if code != http.StatusOK {
		t.Fatalf("list events: status %d", code)
	}
	// The list endpoint returns an array; re-read via the raw recorder.
	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("list events: bad json: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list events: %d entries, want 1", len(list))
	}
	if got := list[0]["current_volunteers"].(float64); got != 10 {
		t.Errorf("current_volunteers = %v, want 10", got)
	}
	if got := list[0]["max_volunteers"].(float64); got != 40 {
		t.Errorf("remaining capacity = %v, want 40", got)
	}

	// Sponsorship flow: companies only, ministries can read them back.
	if code, _ := do(t, e, http.MethodPost, "/v1/events/1/sponsorships", bob,
		`{"sponsorship_amount":100}`); code != http.StatusForbidden {
		t.Errorf("volunteer sponsorship: status %d, want 403", code)
	}
	if code, resp := do(t, e, http.MethodPost, "/v1/events/1/sponsorships", acme,
		`{"sponsorship_amount":2500.50,"description":"gear"}`); code != http.StatusCreated {
		t.Fatalf("sponsorship: status %d (%v)", code, resp)
	}
	if code, _ := do(t, e, http.MethodPost, "/v1/events/99/sponsorships", acme,
		`{"sponsorship_amount":10}`); code != http.StatusNotFound {
		t.Errorf("sponsorship on unknown event: status %d, want 404", code)
	}

	// A company with no organization name on record cannot pledge.
	code, resp := do(t, e, http.MethodPost, "/v1/events/1/sponsorships", globex,
		`{"sponsorship_amount":500}`)
	if code != http.StatusBadRequest {
		t.Errorf("sponsorship without organization name: status %d (%v), want 400", code, resp)
	}
	if got, _ := resp["error"].(string); got != "organization name is missing for the company user" {
		t.Errorf("sponsorship without organization name: error = %q", got)
	}

	// Duplicate email registration surfaces as a bad request.
	code, resp = do(t, e, http.MethodPost, "/v1/auth/register", "",
		`{"user_type":"individual","name":"Bob Again","email":"bob@example.com","password":"secret123"}`)
	if code != http.StatusBadRequest {
		t.Errorf("duplicate email: status %d (%v), want 400", code, resp)
	}

	// Tokens carry identity readable via /v1/me.
	code, me := do(t, e, http.MethodGet, "/v1/me", ministry, "")
	if code != http.StatusOK {
		t.Fatalf("me: status %d", code)
	}
	if got := me["user_type"].(string); got != "ministry" {
		t.Errorf("me user_type = %q, want ministry", got)
	}
}
