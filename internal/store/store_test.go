// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/researchflow/researchflow/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := types.StoreConfig{Path: filepath.Join(t.TempDir(), "test.db")}
	s, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(v int) *int { return &v }

func samplePaper(id string) types.Paper {
	return types.Paper{
		ID:            id,
		Title:         "Paper " + id,
		Authors:       []types.Author{{Name: "Jane Doe"}, {Name: "John Smith"}},
		Abstract:      "An abstract.",
		Year:          intPtr(2021),
		CitationCount: 12,
		URL:           "https://example.org/" + id,
		SourceType:    types.SourceArxiv,
		Venue:         "arXiv",
	}
}

func TestCreateAndGetSession(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	created, err := s.CreateSession(ctx, "EEG Review", "alzheimer eeg")
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("session ID not generated")
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}

	got, err := s.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "EEG Review" || got.Topic != "alzheimer eeg" {
		t.Errorf("session = %+v", got)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, created.CreatedAt)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.GetSession(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateSessionRequiresTitle(t *testing.T) {
	s := testStore(t)
	if _, err := s.CreateSession(context.Background(), "", "topic"); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first, err := s.CreateSession(ctx, "First", "")
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	second, err := s.CreateSession(ctx, "Second", "")
	if err != nil {
		t.Fatal(err)
	}

	sessions, err := s.ListSessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("len = %d, want 2", len(sessions))
	}
	if sessions[0].ID != second.ID || sessions[1].ID != first.ID {
		t.Errorf("order = [%s %s], want newest first", sessions[0].Title, sessions[1].Title)
	}
}

func TestAddPaperAndSessionPapers(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx, "Session", "")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.AddPaper(ctx, sess.ID, samplePaper("arxiv_1"), 0); err != nil {
		t.Fatal(err)
	}
	noYear := samplePaper("ss_2")
	noYear.Year = nil
	if err := s.AddPaper(ctx, sess.ID, noYear, 0.9); err != nil {
		t.Fatal(err)
	}

	papers, err := s.SessionPapers(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 2 {
		t.Fatalf("len = %d, want 2", len(papers))
	}
	if papers[0].ID != "arxiv_1" || papers[1].ID != "ss_2" {
		t.Errorf("order = [%s %s], want insertion order", papers[0].ID, papers[1].ID)
	}

	got := papers[0]
	if got.Title != "Paper arxiv_1" || got.Venue != "arXiv" || got.CitationCount != 12 {
		t.Errorf("paper = %+v", got)
	}
	if len(got.Authors) != 2 || got.Authors[0].Name != "Jane Doe" {
		t.Errorf("authors = %v", got.Authors)
	}
	if got.Year == nil || *got.Year != 2021 {
		t.Errorf("year = %v", got.Year)
	}
	if got.SourceType != types.SourceArxiv {
		t.Errorf("source_type = %q", got.SourceType)
	}
	if papers[1].Year != nil {
		t.Errorf("unknown year should round-trip as nil, got %v", *papers[1].Year)
	}
}

func TestAddPaperTwiceKeepsOneLink(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx, "Session", "")
	if err != nil {
		t.Fatal(err)
	}

	p := samplePaper("arxiv_1")
	if err := s.AddPaper(ctx, sess.ID, p, 0); err != nil {
		t.Fatal(err)
	}
	// Re-adding updates the paper record but never duplicates the link.
	p.Title = "Updated Title"
	if err := s.AddPaper(ctx, sess.ID, p, 0); err != nil {
		t.Fatal(err)
	}

	papers, err := s.SessionPapers(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 1 {
		t.Fatalf("len = %d, want 1", len(papers))
	}
	if papers[0].Title != "Updated Title" {
		t.Errorf("title = %q, want upserted value", papers[0].Title)
	}
}

func TestAddPaperValidation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx, "Session", "")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.AddPaper(ctx, sess.ID, types.Paper{}, 0); err == nil {
		t.Error("expected error for paper without ID")
	}
	if err := s.AddPaper(ctx, "missing", samplePaper("p1"), 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for unknown session", err)
	}
}

func TestAppendMessageAndHistory(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx, "Session", "")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.AppendMessage(ctx, types.ChatMessage{
		SessionID: sess.ID,
		Role:      types.RoleUser,
		Content:   "What do the sources say?",
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendMessage(ctx, types.ChatMessage{
		SessionID:   sess.ID,
		Role:        types.RoleAssistant,
		Content:     "They say things [Tag-2020].",
		CitedPapers: []string{"arxiv_1", "ss_2"},
	}); err != nil {
		t.Fatal(err)
	}

	history, err := s.History(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("len = %d, want 2", len(history))
	}
	if history[0].Role != types.RoleUser || history[1].Role != types.RoleAssistant {
		t.Errorf("roles = [%s %s]", history[0].Role, history[1].Role)
	}
	if history[0].CitedPapers != nil {
		t.Errorf("user message should have no cited papers, got %v", history[0].CitedPapers)
	}
	if len(history[1].CitedPapers) != 2 || history[1].CitedPapers[0] != "arxiv_1" {
		t.Errorf("cited papers = %v", history[1].CitedPapers)
	}
	if history[0].CreatedAt.IsZero() {
		t.Error("created_at not filled")
	}
}

func TestAppendMessageRequiresSession(t *testing.T) {
	s := testStore(t)
	if err := s.AppendMessage(context.Background(), types.ChatMessage{Role: types.RoleUser, Content: "x"}); err == nil {
		t.Fatal("expected error for message without session ID")
	}
}

func TestHistoryEmptySession(t *testing.T) {
	s := testStore(t)
	history, err := s.History(context.Background(), "anything")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Errorf("history = %v, want empty", history)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reuse.db")
	cfg := types.StoreConfig{Path: path}

	s1, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sess, err := s1.CreateSession(context.Background(), "Persisted", "")
	if err != nil {
		t.Fatal(err)
	}
	s1.Close()

	s2, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	got, err := s2.GetSession(context.Background(), sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Persisted" {
		t.Errorf("title = %q", got.Title)
	}
}
