package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Save is one catalog row.
type Save struct {
	SessionID string
	Seq       int64
	Post      string
	Robot     string
	Program   string
	Path      string
	Lines     int
	Size      int
	Digest    string
	Log       string
	CreatedAt time.Time
}

// Filter narrows ListSaves. Zero fields match everything.
type Filter struct {
	SessionID string
	Program   string
	Limit     int
}

// WriteSave appends a row. Writing the same (session, seq) twice is a
// no-op.
func (s *Store) WriteSave(ctx context.Context, sv Save) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saves
		(session_id, seq, post, robot, program, path, lines, size, digest, log, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		sv.SessionID,
		sv.Seq,
		sv.Post,
		sv.Robot,
		sv.Program,
		sv.Path,
		sv.Lines,
		sv.Size,
		sv.Digest,
		sv.Log,
		sv.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	return nil
}

// ListSaves returns matching rows, oldest first. With a Limit, the most
// recent Limit rows are returned, still oldest first.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListSaves(ctx context.Context, f Filter) ([]Save, error) {
	var where []string
	var args []any
	if f.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, f.SessionID)
	}
	if f.Program != "" {
		where = append(where, "program = ?")
		args = append(args, f.Program)
	}

	query := `SELECT session_id, seq, post, robot, program, path, lines, size, digest, log, created_at FROM saves`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, session_id COLLATE BINARY DESC, seq DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query saves: %w", err)
	}
	defer rows.Close()

	saves := []Save{}
	for rows.Next() {
		var sv Save
		var created string
		if err := rows.Scan(&sv.SessionID, &sv.Seq, &sv.Post, &sv.Robot, &sv.Program, &sv.Path,
			&sv.Lines, &sv.Size, &sv.Digest, &sv.Log, &created); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		sv.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		saves = append(saves, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saves: %w", err)
	}

	// Newest first from SQL so LIMIT keeps the latest; flip for display.
	for i, j := 0, len(saves)-1; i < j; i, j = i+1, j-1 {
		saves[i], saves[j] = saves[j], saves[i]
	}
	return saves, nil
}
