package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Snapshot kinds.
const (
	SnapshotSeason  = "season"
	SnapshotAllTime = "alltime"
)

// SnapshotInfo describes one saved summary document.
type SnapshotInfo struct {
	ID        string
	Kind      string
	Label     string
	Missions  int
	CreatedAt string
}

// StoredSnapshot is a snapshot with its raw JSON documents.
type StoredSnapshot struct {
	SnapshotInfo
	Summary json.RawMessage
	Awards  json.RawMessage
}

// SaveSnapshot stores a summary document and its awards under a new run id.
func (db *DB) SaveSnapshot(kind, label string, missions int, summary, awards any) (string, error) {
	sb, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	ab, err := json.Marshal(awards)
	if err != nil {
		return "", fmt.Errorf("marshal awards: %w", err)
	}

	id := uuid.NewString()
	_, err = db.conn.Exec(`
		INSERT INTO snapshots(id, kind, label, missions, created_at, summary, awards)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, kind, label, missions, time.Now().UTC().Format(time.RFC3339Nano), string(sb), string(ab),
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	db.log.Debug().Str("id", id).Str("kind", kind).Str("label", label).Msg("snapshot saved")
	return id, nil
}

// ListSnapshots returns saved snapshots, newest first.
func (db *DB) ListSnapshots() ([]SnapshotInfo, error) {
	rows, err := db.conn.Query(`
		SELECT id, kind, label, missions, created_at
		FROM snapshots ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var s SnapshotInfo
		if err := rows.Scan(&s.ID, &s.Kind, &s.Label, &s.Missions, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSnapshot returns the snapshot with the given id or id prefix.
func (db *DB) GetSnapshot(prefix string) (*StoredSnapshot, error) {
	var s StoredSnapshot
	var summary, awards string
	err := db.conn.QueryRow(`
		SELECT id, kind, label, missions, created_at, summary, awards
		FROM snapshots WHERE id LIKE ? ORDER BY created_at DESC LIMIT 1`, prefix+"%").
		Scan(&s.ID, &s.Kind, &s.Label, &s.Missions, &s.CreatedAt, &summary, &awards)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %q: %w", prefix, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	s.Summary = json.RawMessage(summary)
	s.Awards = json.RawMessage(awards)
	return &s, nil
}
