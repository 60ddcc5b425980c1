package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/volunteerhub/server/internal/model"
)

// EventRepo provides CRUD operations for events and owns the capacity
// ledger: the events.max_volunteers column holds the remaining volunteer
// slots and is only ever debited inside Register's transaction.  The
// number of volunteers already signed up is never stored; List and
// CurrentVolunteers derive it from event_registrations so there is a
// single source of truth.
type EventRepo struct {
    db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// EventUpdate carries the mutable event attributes for a partial update.
// Only non-nil fields are written; everything else keeps its stored value.
type EventUpdate struct {
    Title         *string
    Location      *string
    Date          *time.Time
    MaxVolunteers *int64
    Description   *string
}

// EventSummary is an event row joined with its derived volunteer count,
// as returned by List.
type EventSummary struct {
    Event             model.Event
    CurrentVolunteers int64
}

// Create inserts an event with its full starting capacity and returns the
// stored row.
func (r *EventRepo) Create(ctx context.Context, title, location string, date time.Time, maxVolunteers int64, description *string) (model.Event, error) {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO events (title, location, date, max_volunteers, description) VALUES (?,?,?,?,?)",
        title, location, date.Format("2006-01-02"), maxVolunteers, description)
    if err != nil {
        return model.Event{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.Event{}, err
    }
    return r.GetByID(ctx, uint64(id))
}

// GetByID fetches an event by id, returning ErrEventNotFound when absent.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
    var (
        e    model.Event
        desc sql.NullString
    )
    err := r.db.QueryRowContext(ctx,
        "SELECT id,title,location,date,max_volunteers,description,created_at,updated_at FROM events WHERE id=? LIMIT 1",
        id).Scan(&e.ID, &e.Title, &e.Location, &e.Date, &e.MaxVolunteers, &desc, &e.CreatedAt, &e.UpdatedAt)
    if err == sql.ErrNoRows {
        return model.Event{}, ErrEventNotFound
    }
    if err != nil {
        return model.Event{}, err
    }
    if desc.Valid {
        v := desc.String
        e.Description = &v
    }
    return e, nil
}

// Update overwrites only the fields provided in upd and returns the
// resulting row.  Changing max_volunteers does not reconcile the remaining
// capacity against existing registrations; the new value simply becomes
// the remaining capacity.  Returns ErrEventNotFound when the event does
// not exist.
func (r *EventRepo) Update(ctx context.Context, id uint64, upd EventUpdate) (model.Event, error) {
    set, args := upd.setClauses()
    if len(args) == 0 {
        // Nothing to change; still confirm existence.
        return r.GetByID(ctx, id)
    }
    args = append(args, id)
    if _, err := r.db.ExecContext(ctx, "UPDATE events SET "+set+" WHERE id=?", args...); err != nil {
        return model.Event{}, err
    }
    // RowsAffected is 0 both for a missing row and for a no-op write, so
    // read the row back; a missing event surfaces as ErrEventNotFound here.
    return r.GetByID(ctx, id)
}

// setClauses renders the non-nil fields of upd into a SQL SET fragment and
// its arguments, in declaration order.
func (u EventUpdate) setClauses() (string, []interface{}) {
    cols := make([]string, 0, 5)
    args := make([]interface{}, 0, 5)
    if u.Title != nil {
        cols = append(cols, "title=?")
        args = append(args, *u.Title)
    }
    if u.Location != nil {
        cols = append(cols, "location=?")
        args = append(args, *u.Location)
    }
    if u.Date != nil {
        cols = append(cols, "date=?")
        args = append(args, u.Date.Format("2006-01-02"))
    }
    if u.MaxVolunteers != nil {
        cols = append(cols, "max_volunteers=?")
        args = append(args, *u.MaxVolunteers)
    }
    if u.Description != nil {
        cols = append(cols, "description=?")
        args = append(args, *u.Description)
    }
    return strings.Join(cols, ","), args
}

// List returns all events together with their derived current volunteer
// counts, oldest first.
func (r *EventRepo) List(ctx context.Context) ([]EventSummary, error) {
    const q = `SELECT e.id, e.title, e.location, e.date, e.max_volunteers, e.description,
                      e.created_at, e.updated_at,
                      COALESCE(SUM(reg.volunteer_count), 0)
               FROM events e
               LEFT JOIN event_registrations reg ON reg.event_id = e.id
               GROUP BY e.id
               ORDER BY e.id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]EventSummary, 0)
    for rows.Next() {
        var (
            s    EventSummary
            desc sql.NullString
        )
        if err := rows.Scan(
            &s.Event.ID, &s.Event.Title, &s.Event.Location, &s.Event.Date,
            &s.Event.MaxVolunteers, &desc, &s.Event.CreatedAt, &s.Event.UpdatedAt,
            &s.CurrentVolunteers,
        ); err != nil {
            return nil, err
        }
        if desc.Valid {
            v := desc.String
            s.Event.Description = &v
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

// CurrentVolunteers derives the number of volunteers signed up for one
// event from its registrations.
func (r *EventRepo) CurrentVolunteers(ctx context.Context, eventID uint64) (int64, error) {
    var n int64
    err := r.db.QueryRowContext(ctx,
        "SELECT COALESCE(SUM(volunteer_count),0) FROM event_registrations WHERE event_id=?",
        eventID).Scan(&n)
    return n, err
}

// Register claims count volunteer slots against an event.  The capacity
// check and the debit run in a single transaction with a row lock on the
// event, so two concurrent registrations cannot both pass the check and
// together overdraw the remaining capacity: the second blocks on the lock
// and re-reads the debited value.  On any failure the transaction rolls
// back, leaving neither the registration row nor the debit applied.
//
// Returns ErrInvalidVolunteerCount for count < 1, ErrEventNotFound when
// the event does not exist and ErrCapacityExceeded when count exceeds the
// remaining capacity.
func (r *EventRepo) Register(ctx context.Context, eventID, userID uint64, count int64) (model.EventRegistration, error) {
    if count < 1 {
        return model.EventRegistration{}, ErrInvalidVolunteerCount
    }
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return model.EventRegistration{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var remaining int64
    err = tx.QueryRowContext(ctx,
        "SELECT max_volunteers FROM events WHERE id=? FOR UPDATE",
        eventID).Scan(&remaining)
    if err == sql.ErrNoRows {
        return model.EventRegistration{}, ErrEventNotFound
    }
    if err != nil {
        return model.EventRegistration{}, err
    }
    if count > remaining {
        return model.EventRegistration{}, ErrCapacityExceeded
    }

    res, err := tx.ExecContext(ctx,
        "INSERT INTO event_registrations (event_id, user_id, volunteer_count) VALUES (?,?,?)",
        eventID, userID, count)
    if err != nil {
        return model.EventRegistration{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.EventRegistration{}, err
    }
    if _, err := tx.ExecContext(ctx,
        "UPDATE events SET max_volunteers = max_volunteers - ? WHERE id=?",
        count, eventID); err != nil {
        return model.EventRegistration{}, err
    }

    reg := model.EventRegistration{
        ID:             uint64(id),
        EventID:        eventID,
        UserID:         userID,
        VolunteerCount: count,
    }
    if err := tx.QueryRowContext(ctx,
        "SELECT created_at FROM event_registrations WHERE id=?",
        reg.ID).Scan(&reg.CreatedAt); err != nil {
        return model.EventRegistration{}, err
    }

    if err := tx.Commit(); err != nil {
        return model.EventRegistration{}, err
    }
    committed = true
    return reg, nil
}
