package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/server/internal/middleware"
	"github.com/volunteerhub/server/internal/repository"
)

// newTestContext builds an echo context for a JSON request, optionally
// impersonating an authenticated caller.  These tests cover the
// validation paths that fail before any database access, so the handlers
// are wired with repositories around a nil connection.
func newTestContext(method, path, body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set(middleware.ContextUserID, userID)
	}
	return c, rec
}

func newTestEventHandler() *EventHandler {
	return NewEventHandler(repository.NewEventRepo(nil))
}

func TestCreateEventValidation(t *testing.T) {
	h := newTestEventHandler()

	cases := []struct {
		name string
		body string
	}{
		{"missing title", `{"location":"Park","date":"2026-10-03","max_volunteers":10}`},
		{"missing location", `{"title":"Cleanup","date":"2026-10-03","max_volunteers":10}`},
		{"bad date", `{"title":"Cleanup","location":"Park","date":"03/10/2026","max_volunteers":10}`},
		{"negative capacity", `{"title":"Cleanup","location":"Park","date":"2026-10-03","max_volunteers":-5}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(http.MethodPost, "/v1/events", tc.body, 0)
			if err := h.Create(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestUpdateEventInvalidID(t *testing.T) {
	h := newTestEventHandler()
	for _, id := range []string{"abc", "0", "-1"} {
		c, rec := newTestContext(http.MethodPut, "/v1/events/"+id, `{"title":"x"}`, 0)
		c.SetParamNames("id")
		c.SetParamValues(id)
		if err := h.Update(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("id %q: status = %d, want 400", id, rec.Code)
		}
	}
}

func TestRegisterForEventRequiresAuthContext(t *testing.T) {
	h := newTestEventHandler()
	c, rec := newTestContext(http.MethodPost, "/v1/events/1/register", `{"volunteer_count":1}`, 0)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.RegisterForEvent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRegisterForEventRejectsNonPositiveCount(t *testing.T) {
	h := newTestEventHandler()
	for _, body := range []string{`{"volunteer_count":0}`, `{"volunteer_count":-3}`, `{}`} {
		c, rec := newTestContext(http.MethodPost, "/v1/events/1/register", body, 7)
		c.SetParamNames("id")
		c.SetParamValues("1")
		if err := h.RegisterForEvent(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestCreateSponsorshipValidation(t *testing.T) {
	h := NewSponsorshipHandler(repository.NewSponsorshipRepo(nil), repository.NewEventRepo(nil), repository.NewUserRepo(nil))

	// Unauthenticated context.
	c, rec := newTestContext(http.MethodPost, "/v1/events/1/sponsorships", `{"sponsorship_amount":100}`, 0)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	// Negative pledge.
	c, rec = newTestContext(http.MethodPost, "/v1/events/1/sponsorships", `{"sponsorship_amount":-10}`, 7)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
