// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used by the publisher and the notification consumer.
const (
    VolunteerRegisteredQueue = "volunteer.registered"
    SponsorshipCreatedQueue  = "sponsorship.created"
)

// VolunteerRegisteredEvent is published after a registration transaction
// commits.  It carries enough context for downstream consumers to notify
// or aggregate without querying the primary database.
type VolunteerRegisteredEvent struct {
    RegistrationID uint64 `json:"registration_id"`
    EventID        uint64 `json:"event_id"`
    EventTitle     string `json:"event_title"`
    UserID         uint64 `json:"user_id"`
    VolunteerCount int64  `json:"volunteer_count"`
    RemainingSlots int64  `json:"remaining_slots"`
    RegisteredAt   string `json:"registered_at"`
}

// SponsorshipCreatedEvent is published when a company pledges money to an
// event.
type SponsorshipCreatedEvent struct {
    SponsorshipID uint64  `json:"sponsorship_id"`
    EventID       uint64  `json:"event_id"`
    EventTitle    string  `json:"event_title"`
    CompanyID     uint64  `json:"company_id"`
    CompanyName   string  `json:"company_name"`
    Amount        float64 `json:"sponsorship_amount"`
    PledgedAt     string  `json:"pledged_at"`
}
