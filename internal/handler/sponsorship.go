package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/volunteerhub/server/internal/model"
    "github.com/volunteerhub/server/internal/queue"
    "github.com/volunteerhub/server/internal/repository"
    queue_publisher "github.com/volunteerhub/server/internal/service"
)

// SponsorshipHandler serves sponsorship creation (company role) and the
// ministry's listing of pledges per event.
type SponsorshipHandler struct {
    Sponsorships *repository.SponsorshipRepo
    Events       *repository.EventRepo
    Users        *repository.UserRepo
}

func NewSponsorshipHandler(sponsorships *repository.SponsorshipRepo, events *repository.EventRepo, users *repository.UserRepo) *SponsorshipHandler {
    if sponsorships == nil || events == nil || users == nil {
        panic("nil repository passed to NewSponsorshipHandler")
    }
    return &SponsorshipHandler{Sponsorships: sponsorships, Events: events, Users: users}
}

type createSponsorshipReq struct {
    Amount      float64 `json:"sponsorship_amount"`
    Description *string `json:"description"`
}

type sponsorshipResp struct {
    ID          uint64  `json:"id"`
    EventID     uint64  `json:"event_id"`
    CompanyID   uint64  `json:"company_id"`
    Amount      float64 `json:"sponsorship_amount"`
    Description *string `json:"description,omitempty"`
}

func toSponsorshipResp(sp model.Sponsorship) sponsorshipResp {
    return sponsorshipResp{
        ID:          sp.ID,
        EventID:     sp.EventID,
        CompanyID:   sp.CompanyID,
        Amount:      sp.Amount,
        Description: sp.Description,
    }
}

// Create handles POST /v1/events/:id/sponsorships (company only).  The
// company user must have an organization name on record; the pledge is
// tied to the caller's own user id, never one named in the request.
func (h *SponsorshipHandler) Create(c echo.Context) error {
    userID, err := callerID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || eventID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    var req createSponsorshipReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.Amount < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "sponsorship_amount must not be negative"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
    }
    if u.OrganizationName == nil || *u.OrganizationName == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "organization name is missing for the company user"})
    }
    ev, err := h.Events.GetByID(ctx, eventID)
    if err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }

    sp, err := h.Sponsorships.Create(ctx, eventID, userID, req.Amount, req.Description)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create sponsorship failed"})
    }

    _ = queue_publisher.PublishSponsorshipCreated(ctx, queue.SponsorshipCreatedEvent{
        SponsorshipID: sp.ID,
        EventID:       eventID,
        EventTitle:    ev.Title,
        CompanyID:     userID,
        CompanyName:   *u.OrganizationName,
        Amount:        sp.Amount,
        PledgedAt:     sp.CreatedAt.UTC().Format(time.RFC3339),
    })

    return c.JSON(http.StatusCreated, toSponsorshipResp(sp))
}

// ListByEvent handles GET /v1/events/:id/sponsorships (ministry only), the
// organiser's view of pledges against an event.
func (h *SponsorshipHandler) ListByEvent(c echo.Context) error {
    eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || eventID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    if _, err := h.Events.GetByID(ctx, eventID); err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    list, err := h.Sponsorships.ListByEvent(ctx, eventID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]sponsorshipResp, 0, len(list))
    for _, sp := range list {
        out = append(out, toSponsorshipResp(sp))
    }
    return c.JSON(http.StatusOK, out)
}
