package repository

import (
    "context"
    "database/sql"

    "github.com/volunteerhub/server/internal/model"
)

// SponsorshipRepo records monetary pledges against events.  Rows are
// immutable once inserted; no budget cap applies because events carry no
// sponsorship target.
type SponsorshipRepo struct {
    db *sql.DB
}

// NewSponsorshipRepo returns a new SponsorshipRepo bound to the given database.
func NewSponsorshipRepo(db *sql.DB) *SponsorshipRepo { return &SponsorshipRepo{db: db} }

// Create inserts a sponsorship tying the event to the company user and
// returns the stored row.
func (r *SponsorshipRepo) Create(ctx context.Context, eventID, companyID uint64, amount float64, description *string) (model.Sponsorship, error) {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO sponsorships (event_id, company_id, sponsorship_amount, description) VALUES (?,?,?,?)",
        eventID, companyID, amount, description)
    if err != nil {
        return model.Sponsorship{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.Sponsorship{}, err
    }
    sp := model.Sponsorship{
        ID:          uint64(id),
        EventID:     eventID,
        CompanyID:   companyID,
        Amount:      amount,
        Description: description,
    }
    if err := r.db.QueryRowContext(ctx,
        "SELECT created_at FROM sponsorships WHERE id=?",
        sp.ID).Scan(&sp.CreatedAt); err != nil {
        return model.Sponsorship{}, err
    }
    return sp, nil
}

// ListByEvent returns all sponsorships recorded against an event, newest
// first.
func (r *SponsorshipRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Sponsorship, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT id, event_id, company_id, sponsorship_amount, description, created_at FROM sponsorships WHERE event_id=? ORDER BY created_at DESC",
        eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Sponsorship, 0)
    for rows.Next() {
        var (
            sp   model.Sponsorship
            desc sql.NullString
        )
        if err := rows.Scan(&sp.ID, &sp.EventID, &sp.CompanyID, &sp.Amount, &desc, &sp.CreatedAt); err != nil {
            return nil, err
        }
        if desc.Valid {
            v := desc.String
            sp.Description = &v
        }
        out = append(out, sp)
    }
    return out, rows.Err()
}
