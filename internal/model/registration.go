package model

import "time"

// EventRegistration records a claim of volunteer slots against an event by
// an individual or university club.  Rows are immutable once written: they
// are inserted in the same transaction that debits the event's remaining
// capacity, and there is no cancellation path.
//
// Fields:
//  ID             – primary key identifier.
//  EventID        – event whose capacity was debited.
//  UserID         – volunteer-side user who registered.
//  VolunteerCount – number of slots claimed (>= 1).
//  CreatedAt      – creation timestamp.
type EventRegistration struct {
    ID             uint64    // event_registrations.id
    EventID        uint64    // event_registrations.event_id
    UserID         uint64    // event_registrations.user_id
    VolunteerCount int64     // event_registrations.volunteer_count
    CreatedAt      time.Time // event_registrations.created_at
}
