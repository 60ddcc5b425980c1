package model

import "time"

// Sponsorship is a monetary pledge against an event by a company user.
// Immutable once created; no budget cap applies.
//
// Fields:
//  ID          – primary key identifier.
//  EventID     – sponsored event.
//  CompanyID   – company user making the pledge.
//  Amount      – pledged amount (non-negative).
//  Description – optional free-text description.
//  CreatedAt   – creation timestamp.
type Sponsorship struct {
    ID          uint64    // sponsorships.id
    EventID     uint64    // sponsorships.event_id
    CompanyID   uint64    // sponsorships.company_id
    Amount      float64   // sponsorships.sponsorship_amount
    Description *string   // sponsorships.description (nullable)
    CreatedAt   time.Time // sponsorships.created_at
}
