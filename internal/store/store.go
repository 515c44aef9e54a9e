// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists research sessions, their papers, and chat
// history in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/researchflow/researchflow/pkg/types"
)

// DefaultPath is the database file used when none is configured.
const DefaultPath = "researchflow.db"

// defaultRelevance is assigned to session links added without an explicit
// relevance score.
const defaultRelevance = 0.5

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")

// Store manages the session SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the session database at cfg.Path, creating the
// schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			topic TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			authors TEXT,
			abstract TEXT,
			year INTEGER,
			citation_count INTEGER NOT NULL DEFAULT 0,
			url TEXT,
			pdf_url TEXT,
			source_type TEXT,
			venue TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS session_papers (
			session_id TEXT NOT NULL REFERENCES sessions(id),
			paper_id TEXT NOT NULL REFERENCES papers(id),
			relevance_score REAL NOT NULL DEFAULT 0.5,
			PRIMARY KEY (session_id, paper_id)
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id),
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			cited_papers TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// CreateSession creates a new session with a generated ID.
func (s *Store) CreateSession(ctx context.Context, title, topic string) (types.Session, error) {
	if title == "" {
		return types.Session{}, fmt.Errorf("session title is required")
	}

	sess := types.Session{
		ID:        uuid.NewString(),
		Title:     title,
		Topic:     topic,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, title, topic, created_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.Title, sess.Topic, sess.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return types.Session{}, fmt.Errorf("inserting session: %w", err)
	}
	return sess, nil
}

// GetSession loads a session by ID. Returns ErrNotFound when it does
// not exist.
func (s *Store) GetSession(ctx context.Context, id string) (types.Session, error) {
	var sess types.Session
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, topic, created_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.Title, &sess.Topic, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Session{}, ErrNotFound
	}
	if err != nil {
		return types.Session{}, fmt.Errorf("loading session: %w", err)
	}
	sess.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return sess, nil
}

// ListSessions returns all sessions, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]types.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, topic, created_at FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []types.Session
	for rows.Next() {
		var sess types.Session
		var createdAt string
		if err := rows.Scan(&sess.ID, &sess.Title, &sess.Topic, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sess.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// AddPaper upserts the paper record and links it into the session.
// relevance <= 0 falls back to the default score. Linking the same paper
// twice is not an error; the existing link is kept.
func (s *Store) AddPaper(ctx context.Context, sessionID string, p types.Paper, relevance float64) error {
	if p.ID == "" {
		return fmt.Errorf("paper ID is required")
	}
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return err
	}
	if relevance <= 0 {
		relevance = defaultRelevance
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	authorsJSON, _ := json.Marshal(p.Authors)
	var year any
	if p.Year != nil {
		year = *p.Year
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO papers (id, title, authors, abstract, year, citation_count, url, pdf_url, source_type, venue)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, abstract=excluded.abstract,
			year=excluded.year, citation_count=excluded.citation_count, url=excluded.url,
			pdf_url=excluded.pdf_url, source_type=excluded.source_type, venue=excluded.venue`,
		p.ID, p.Title, string(authorsJSON), p.Abstract, year,
		p.CitationCount, p.URL, p.PDFURL, string(p.SourceType), p.Venue,
	)
	if err != nil {
		return fmt.Errorf("upserting paper: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO session_papers (session_id, paper_id, relevance_score) VALUES (?, ?, ?)`,
		sessionID, p.ID, relevance,
	)
	if err != nil {
		return fmt.Errorf("linking paper: %w", err)
	}

	return tx.Commit()
}

// SessionPapers returns the papers linked into a session in the order
// they were added.
func (s *Store) SessionPapers(ctx context.Context, sessionID string) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.title, p.authors, p.abstract, p.year, p.citation_count,
		        p.url, p.pdf_url, p.source_type, p.venue
		 FROM session_papers sp
		 JOIN papers p ON p.id = sp.paper_id
		 WHERE sp.session_id = ?
		 ORDER BY sp.rowid`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var p types.Paper
		var authorsJSON string
		var year sql.NullInt64
		var sourceType string
		if err := rows.Scan(&p.ID, &p.Title, &authorsJSON, &p.Abstract, &year,
			&p.CitationCount, &p.URL, &p.PDFURL, &sourceType, &p.Venue); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if authorsJSON != "" {
			if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
				return nil, fmt.Errorf("parsing authors for %s: %w", p.ID, err)
			}
		}
		if year.Valid {
			y := int(year.Int64)
			p.Year = &y
		}
		p.SourceType = types.SourceType(sourceType)
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// AppendMessage records one chat turn. A zero CreatedAt is filled with
// the current time.
func (s *Store) AppendMessage(ctx context.Context, msg types.ChatMessage) error {
	if msg.SessionID == "" {
		return fmt.Errorf("session ID is required")
	}
	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var cited any
	if msg.CitedPapers != nil {
		citedJSON, _ := json.Marshal(msg.CitedPapers)
		cited = string(citedJSON)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (session_id, role, content, cited_papers, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		msg.SessionID, string(msg.Role), msg.Content, cited,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting chat message: %w", err)
	}
	return nil
}

// History returns a session's chat messages ordered oldest first.
func (s *Store) History(ctx context.Context, sessionID string) ([]types.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, role, content, cited_papers, created_at
		 FROM chat_messages WHERE session_id = ?
		 ORDER BY created_at ASC, rowid ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading chat history: %w", err)
	}
	defer rows.Close()

	var messages []types.ChatMessage
	for rows.Next() {
		var msg types.ChatMessage
		var role string
		var cited sql.NullString
		var createdAt string
		if err := rows.Scan(&msg.SessionID, &role, &msg.Content, &cited, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		msg.Role = types.ChatRole(role)
		if cited.Valid && cited.String != "" {
			if err := json.Unmarshal([]byte(cited.String), &msg.CitedPapers); err != nil {
				return nil, fmt.Errorf("parsing cited papers: %w", err)
			}
		}
		msg.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
