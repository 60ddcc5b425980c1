package model

import "time"

// Event represents a volunteering opportunity as stored in the `events`
// table.  MaxVolunteers holds the REMAINING capacity: registrations debit
// it inside the same transaction that inserts the registration row, so it
// can never go below zero.  The number of volunteers already signed up is
// never stored; it is derived at read time from event_registrations.
//
// Fields:
//  ID            – primary key identifier.
//  Title         – event title.
//  Location      – where the event takes place.
//  Date          – calendar day of the event.
//  MaxVolunteers – remaining volunteer slots.
//  Description   – optional free-text description.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Event struct {
    ID            uint64    // events.id
    Title         string    // events.title
    Location      string    // events.location
    Date          time.Time // events.date
    MaxVolunteers int64     // events.max_volunteers (remaining capacity)
    Description   *string   // events.description (nullable)
    CreatedAt     time.Time // events.created_at
    UpdatedAt     time.Time // events.updated_at
}
