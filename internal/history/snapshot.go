package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/plotstore/internal/scene"
)

// ErrNotFound is returned by Get when no snapshot has the requested seq.
var ErrNotFound = errors.New("snapshot not found")

// Reason records why a snapshot was archived.
type Reason string

const (
	ReasonRemove Reason = "remove"
	ReasonClear  Reason = "clear"
	ReasonRender Reason = "render"
)

// Snapshot is one archived rendering of a page.
type Snapshot struct {
	Seq      int64        `json:"seq"`
	PageID   scene.PageID `json:"id"`
	Reason   Reason       `json:"reason"`
	Upid     int          `json:"upid"`
	Width    float64      `json:"w"`
	Height   float64      `json:"h"`
	Renderer string       `json:"renderer"`
	Mime     string       `json:"mime"`
	Body     []byte       `json:"-"`
}

// Save appends a snapshot and returns the seq assigned to it.
// The Seq field of snap is ignored.
func (a *Archive) Save(ctx context.Context, snap Snapshot) (int64, error) {
	if snap.Body == nil {
		snap.Body = []byte{}
	}
	res, err := a.db.ExecContext(ctx, `
		INSERT INTO snapshots
		(page_id, reason, upid, width, height, renderer, mime, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		int64(snap.PageID),
		string(snap.Reason),
		snap.Upid,
		snap.Width,
		snap.Height,
		snap.Renderer,
		snap.Mime,
		snap.Body,
	)
	if err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	return seq, nil
}

// List returns snapshot metadata, newest first, without bodies.
// A limit of zero or less returns every snapshot.
func (a *Archive) List(ctx context.Context, limit int) ([]Snapshot, error) {
	query := `
		SELECT seq, page_id, reason, upid, width, height, renderer, mime
		FROM snapshots
		ORDER BY seq DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		var (
			s      Snapshot
			pageID int64
			reason string
		)
		if err := rows.Scan(&s.Seq, &pageID, &reason, &s.Upid, &s.Width, &s.Height, &s.Renderer, &s.Mime); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		s.PageID = scene.PageID(pageID)
		s.Reason = Reason(reason)
		snaps = append(snaps, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return snaps, nil
}

// Get returns the snapshot with the given seq, body included.
func (a *Archive) Get(ctx context.Context, seq int64) (Snapshot, error) {
	var (
		s      Snapshot
		pageID int64
		reason string
	)
	err := a.db.QueryRowContext(ctx, `
		SELECT seq, page_id, reason, upid, width, height, renderer, mime, body
		FROM snapshots
		WHERE seq = ?
	`, seq).Scan(&s.Seq, &pageID, &reason, &s.Upid, &s.Width, &s.Height, &s.Renderer, &s.Mime, &s.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("get snapshot %d: %w", seq, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("get snapshot %d: %w", seq, err)
	}
	s.PageID = scene.PageID(pageID)
	s.Reason = Reason(reason)
	return s, nil
}

// Count returns the number of archived snapshots.
func (a *Archive) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}
