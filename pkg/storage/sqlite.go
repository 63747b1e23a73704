package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pitchdeskco/pitchdesk/pkg/chat"
)

const transcriptSchema = `
CREATE TABLE IF NOT EXISTS transcripts (
	session_id     TEXT NOT NULL,
	seq            INTEGER NOT NULL,
	role           TEXT NOT NULL,
	content        TEXT NOT NULL DEFAULT '',
	image          BLOB,
	image_mime     TEXT,
	generated      BLOB,
	generated_mime TEXT,
	PRIMARY KEY (session_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_transcripts_session ON transcripts(session_id);
`

// SQLiteRecorder persists transcripts in a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
}

// NewSQLiteRecorder opens (creating if needed) the database at path.
// Use ":memory:" for an in-memory database.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(transcriptSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteRecorder{db: db}, nil
}

func (r *SQLiteRecorder) Record(ctx context.Context, sessionID string, seq int, msg chat.Message) error {
	var image, generated []byte
	var imageMIME, generatedMIME sql.NullString
	if msg.Image != nil {
		image = msg.Image.Data
		imageMIME = sql.NullString{String: msg.Image.MIME, Valid: true}
	}
	if msg.GeneratedImage != nil {
		generated = msg.GeneratedImage.Data
		generatedMIME = sql.NullString{String: msg.GeneratedImage.MIME, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO transcripts
		 (session_id, seq, role, content, image, image_mime, generated, generated_mime)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, seq, string(msg.Role), msg.Content, image, imageMIME, generated, generatedMIME,
	)
	if err != nil {
		return fmt.Errorf("record message: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) History(ctx context.Context, sessionID string) ([]chat.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role, content, image, image_mime, generated, generated_mime
		 FROM transcripts WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []chat.Message
	for rows.Next() {
		var (
			role, content            string
			image, generated         []byte
			imageMIME, generatedMIME sql.NullString
		)
		if err := rows.Scan(&role, &content, &image, &imageMIME, &generated, &generatedMIME); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg := chat.Message{Role: chat.Role(role), Content: content}
		if len(image) > 0 {
			msg.Image = &chat.ImagePayload{Data: image, MIME: imageMIME.String}
		}
		if len(generated) > 0 {
			msg.GeneratedImage = &chat.ImagePayload{Data: generated, MIME: generatedMIME.String}
		}
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

func (r *SQLiteRecorder) Clear(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transcripts WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

var _ Recorder = (*SQLiteRecorder)(nil)
