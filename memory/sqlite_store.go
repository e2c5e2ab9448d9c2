// Copyright 2026 The QuantScout Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memory

import (
	"cmp"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteTranscriptStore persists serialized scratchpads in a SQLite database
// for inspection and replay.
//
// By default it uses an in-memory database that is lost when the process
// ends. For a transcript archive that survives the process, provide a file
// path.
type SQLiteTranscriptStore struct {
	dbDSN         string
	sessionTable  string
	messagesTable string
	db            *sql.DB
	mu            sync.Mutex
}

type SQLiteTranscriptStoreParams struct {
	// Optional database data source name.
	// Defaults to "file::memory:?cache=shared" (in-memory database).
	DBDataSourceName string

	// Optional name of the table to store session metadata.
	// Defaults to "run_sessions".
	SessionTable string

	// Optional name of the table to store message data.
	// Defaults to "run_messages".
	MessagesTable string
}

// NewSQLiteTranscriptStore opens the database and initializes the schema.
func NewSQLiteTranscriptStore(ctx context.Context, params SQLiteTranscriptStoreParams) (_ *SQLiteTranscriptStore, err error) {
	s := &SQLiteTranscriptStore{
		dbDSN:         cmp.Or(params.DBDataSourceName, "file::memory:?cache=shared"),
		sessionTable:  cmp.Or(params.SessionTable, "run_sessions"),
		messagesTable: cmp.Or(params.MessagesTable, "run_messages"),
	}

	defer func() {
		if err != nil && s.db != nil {
			if e := s.db.Close(); e != nil {
				err = errors.Join(err, e)
			}
		}
	}()

	s.db, err = sql.Open("sqlite3", s.dbDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite3 database: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, `PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}

	if err = s.initDB(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveTranscript stores the scratchpad's messages under the given session ID,
// replacing any transcript previously stored for it.
func (s *SQLiteTranscriptStore) SaveTranscript(ctx context.Context, sessionID string, pad *Scratchpad) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		fmt.Sprintf(`INSERT OR IGNORE INTO "%s" (session_id) VALUES (?)`, s.sessionTable),
		sessionID,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(
		ctx,
		fmt.Sprintf(`DELETE FROM "%s" WHERE session_id = ?`, s.messagesTable),
		sessionID,
	)
	if err != nil {
		return err
	}

	for i, msg := range pad.Messages() {
		jsonMsg, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("error JSON marshaling message: %w", err)
		}
		_, err = tx.ExecContext(
			ctx,
			fmt.Sprintf(`INSERT INTO "%s" (session_id, position, message_data) VALUES (?, ?, ?)`, s.messagesTable),
			sessionID, i, string(jsonMsg),
		)
		if err != nil {
			return fmt.Errorf("error inserting message: %w", err)
		}
	}

	_, err = tx.ExecContext(
		ctx,
		fmt.Sprintf(`UPDATE "%s" SET updated_at = CURRENT_TIMESTAMP WHERE session_id = ?`, s.sessionTable),
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("error updating session timestamp: %w", err)
	}

	return tx.Commit()
}

// LoadTranscript restores the scratchpad stored under the given session ID.
// It returns nil with no error if the session is unknown.
func (s *SQLiteTranscriptStore) LoadTranscript(ctx context.Context, sessionID string) (_ *Scratchpad, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT message_data FROM "%s"
		WHERE session_id = ?
		ORDER BY position ASC
	`, s.messagesTable), sessionID)
	if err != nil {
		return nil, fmt.Errorf("error querying transcript: %w", err)
	}
	defer func() {
		if e := rows.Close(); e != nil {
			err = errors.Join(err, fmt.Errorf("error closing sql.Rows: %w", e))
		}
	}()

	var messages []Message
	for rows.Next() {
		var messageData string
		if err = rows.Scan(&messageData); err != nil {
			return nil, fmt.Errorf("sql rows scan error: %w", err)
		}
		var msg Message
		if err = json.Unmarshal([]byte(messageData), &msg); err != nil {
			return nil, fmt.Errorf("error unmarshaling stored message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("sql rows scan error: %w", err)
	}

	if len(messages) == 0 {
		return nil, nil
	}

	serialized, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}
	pad := new(Scratchpad)
	if err = pad.UnmarshalJSON(serialized); err != nil {
		return nil, err
	}
	return pad, nil
}

// ClearSession removes the transcript stored under the given session ID.
func (s *SQLiteTranscriptStore) ClearSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(
		ctx,
		fmt.Sprintf(`DELETE FROM "%s" WHERE session_id = ?`, s.messagesTable),
		sessionID,
	)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		fmt.Sprintf(`DELETE FROM "%s" WHERE session_id = ?`, s.sessionTable),
		sessionID,
	)
	return err
}

// Initialize the database schema.
func (s *SQLiteTranscriptStore) initDB(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s" (
			session_id TEXT PRIMARY KEY,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, s.sessionTable))
	if err != nil {
		return fmt.Errorf("error creating session table: %w", err)
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s" (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			message_data TEXT NOT NULL,
			FOREIGN KEY (session_id) REFERENCES "%s" (session_id) ON DELETE CASCADE
		)
	`, s.messagesTable, s.sessionTable))
	if err != nil {
		return fmt.Errorf("error creating messages table: %w", err)
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS "idx_%s_session_id" ON "%s" (session_id, position)`,
		s.messagesTable, s.messagesTable))
	if err != nil {
		return fmt.Errorf("error creating index: %w", err)
	}

	return nil
}

// Close the database connection.
func (s *SQLiteTranscriptStore) Close() error {
	return s.db.Close()
}
