package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/volunteerhub/server/internal/model"
    "github.com/volunteerhub/server/internal/queue"
    "github.com/volunteerhub/server/internal/repository"
    queue_publisher "github.com/volunteerhub/server/internal/service"
)

// EventHandler serves the event endpoints: event creation and update
// (ministry), public listing, and volunteer registration (individuals and
// university clubs).  Role enforcement is done by middleware before any of
// these methods run.
type EventHandler struct {
    Events *repository.EventRepo
}

func NewEventHandler(events *repository.EventRepo) *EventHandler {
    if events == nil {
        panic("nil repository passed to NewEventHandler")
    }
    return &EventHandler{Events: events}
}

// ----- DTOs -----

type createEventReq struct {
    Title         string  `json:"title"`
    Location      string  `json:"location"`
    Date          string  `json:"date"` // YYYY-MM-DD
    MaxVolunteers int64   `json:"max_volunteers"`
    Description   *string `json:"description"`
}

// updateEventReq carries one optional field per mutable attribute; only
// the fields present in the request body are applied.
type updateEventReq struct {
    Title         *string `json:"title"`
    Location      *string `json:"location"`
    Date          *string `json:"date"`
    MaxVolunteers *int64  `json:"max_volunteers"`
    Description   *string `json:"description"`
}

type registerEventReq struct {
    VolunteerCount int64 `json:"volunteer_count"`
}

type eventResp struct {
    ID                uint64  `json:"id"`
    Title             string  `json:"title"`
    Location          string  `json:"location"`
    Date              string  `json:"date"`
    CurrentVolunteers int64   `json:"current_volunteers"`
    MaxVolunteers     int64   `json:"max_volunteers"`
    Description       *string `json:"description,omitempty"`
}

type eventListResp struct {
    EventID           uint64 `json:"event_id"`
    Title             string `json:"title"`
    Location          string `json:"location"`
    Date              string `json:"date"`
    CurrentVolunteers int64  `json:"current_volunteers"`
    MaxVolunteers     int64  `json:"max_volunteers"`
}

type registrationResp struct {
    ID             uint64 `json:"id"`
    EventID        uint64 `json:"event_id"`
    UserID         uint64 `json:"user_id"`
    VolunteerCount int64  `json:"volunteer_count"`
}

func toEventResp(e model.Event, current int64) eventResp {
    return eventResp{
        ID:                e.ID,
        Title:             e.Title,
        Location:          e.Location,
        Date:              e.Date.Format(dateLayout),
        CurrentVolunteers: current,
        MaxVolunteers:     e.MaxVolunteers,
        Description:       e.Description,
    }
}

// Create handles POST /v1/events (ministry only).  The given
// max_volunteers becomes the event's full remaining capacity.
func (h *EventHandler) Create(c echo.Context) error {
    var req createEventReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Title = strings.TrimSpace(req.Title)
    req.Location = strings.TrimSpace(req.Location)
    if req.Title == "" || req.Location == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/location required"})
    }
    date, err := time.Parse(dateLayout, req.Date)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
    }
    if req.MaxVolunteers < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_volunteers must not be negative"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    e, err := h.Events.Create(ctx, req.Title, req.Location, date, req.MaxVolunteers, req.Description)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
    }
    // A fresh event has no registrations.
    return c.JSON(http.StatusCreated, toEventResp(e, 0))
}

// Update handles PUT /v1/events/:id (ministry only).  Only the fields
// present in the body are overwritten.  A changed max_volunteers simply
// becomes the new remaining capacity; existing registrations are not
// reconciled against it.
func (h *EventHandler) Update(c echo.Context) error {
    eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || eventID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    var req updateEventReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    upd := repository.EventUpdate{
        Title:         req.Title,
        Location:      req.Location,
        MaxVolunteers: req.MaxVolunteers,
        Description:   req.Description,
    }
    if req.Date != nil {
        d, err := time.Parse(dateLayout, *req.Date)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
        }
        upd.Date = &d
    }
    if req.MaxVolunteers != nil && *req.MaxVolunteers < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_volunteers must not be negative"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    e, err := h.Events.Update(ctx, eventID, upd)
    if err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update event failed"})
    }
    current, err := h.Events.CurrentVolunteers(ctx, eventID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, toEventResp(e, current))
}

// List handles GET /v1/events.  Open to everyone; the current volunteer
// count per event is derived from registrations at read time.
func (h *EventHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    summaries, err := h.Events.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]eventListResp, 0, len(summaries))
    for _, s := range summaries {
        out = append(out, eventListResp{
            EventID:           s.Event.ID,
            Title:             s.Event.Title,
            Location:          s.Event.Location,
            Date:              s.Event.Date.Format(dateLayout),
            CurrentVolunteers: s.CurrentVolunteers,
            MaxVolunteers:     s.Event.MaxVolunteers,
        })
    }
    return c.JSON(http.StatusOK, out)
}

// RegisterForEvent handles POST /v1/events/:id/register (individuals and
// university clubs).  The capacity check and debit run atomically in the
// repository; a request that exceeds the remaining capacity changes
// nothing.
func (h *EventHandler) RegisterForEvent(c echo.Context) error {
    userID, err := callerID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || eventID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    var req registerEventReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    reg, err := h.Events.Register(ctx, eventID, userID, req.VolunteerCount)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrInvalidVolunteerCount):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "volunteer_count must be at least 1"})
        case errors.Is(err, repository.ErrEventNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        case errors.Is(err, repository.ErrCapacityExceeded):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "exceeds maximum volunteers"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
    }

    // Notify downstream consumers; a broker outage must not fail the
    // registration that already committed.
    if ev, err := h.Events.GetByID(ctx, eventID); err == nil {
        _ = queue_publisher.PublishVolunteerRegistered(ctx, queue.VolunteerRegisteredEvent{
            RegistrationID: reg.ID,
            EventID:        eventID,
            EventTitle:     ev.Title,
            UserID:         userID,
            VolunteerCount: reg.VolunteerCount,
            RemainingSlots: ev.MaxVolunteers,
            RegisteredAt:   reg.CreatedAt.UTC().Format(time.RFC3339),
        })
    } else {
        log.Printf("event: post-registration lookup failed for event %d: %v", eventID, err)
    }

    return c.JSON(http.StatusCreated, registrationResp{
        ID:             reg.ID,
        EventID:        reg.EventID,
        UserID:         reg.UserID,
        VolunteerCount: reg.VolunteerCount,
    })
}
