// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/researchflow/researchflow/internal/ingest"
	"github.com/researchflow/researchflow/pkg/types"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage research sessions and their sources",
	Long: `Session groups papers and chat history under a research topic. Papers
come from search output (add) or local PDF files (upload); chat, draft,
and bibliography all operate on a session's collected sources.`,
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new research session",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		topic, _ := cmd.Flags().GetString("topic")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		sess, err := s.CreateSession(cmd.Context(), title, topic)
		if err != nil {
			return err
		}
		fmt.Printf("created session %s: %s\n", sess.ID, sess.Title)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		sessions, err := s.ListSessions(cmd.Context())
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("no sessions")
			return nil
		}
		for _, sess := range sessions {
			fmt.Printf("%s  %s  %s\n", sess.ID, sess.CreatedAt.Format("2006-01-02"), sess.Title)
		}
		return nil
	},
}

var sessionPapersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List the papers in a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		papers, err := s.SessionPapers(cmd.Context(), sessionID)
		if err != nil {
			return err
		}
		if len(papers) == 0 {
			fmt.Println("no papers in session")
			return nil
		}
		for _, p := range papers {
			year := "n.d."
			if p.Year != nil {
				year = fmt.Sprintf("%d", *p.Year)
			}
			fmt.Printf("%-24s %-6s %-18s %s\n", p.ID, year, p.SourceType, p.Title)
		}
		return nil
	},
}

var sessionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a paper from search output to a session",
	Long: `Add reads a single paper as JSON (one element of the search --json papers
array) from a file or stdin and links it into the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		paperFile, _ := cmd.Flags().GetString("paper")
		relevance, _ := cmd.Flags().GetFloat64("relevance")

		var r io.Reader = os.Stdin
		if paperFile != "" && paperFile != "-" {
			f, err := os.Open(paperFile)
			if err != nil {
				return fmt.Errorf("opening paper file: %w", err)
			}
			defer f.Close()
			r = f
		}

		var p types.Paper
		if err := json.NewDecoder(r).Decode(&p); err != nil {
			return fmt.Errorf("parsing paper JSON: %w", err)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.AddPaper(cmd.Context(), sessionID, p, relevance); err != nil {
			return err
		}
		fmt.Printf("added %s to session %s\n", p.ID, sessionID)
		return nil
	},
}

var sessionUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Add a local PDF to a session",
	Long: `Upload ingests a local PDF file as a paper: the first page of text
supplies the title, abstract, and a publication-year guess.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		pdfPath, _ := cmd.Flags().GetString("pdf")
		title, _ := cmd.Flags().GetString("title")

		p, err := ingest.PaperFromPDF(pdfPath, title, os.Stderr)
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.AddPaper(cmd.Context(), sessionID, p, 0); err != nil {
			return err
		}
		fmt.Printf("added %s (%s) to session %s\n", p.ID, p.Title, sessionID)
		return nil
	},
}

func init() {
	sessionCreateCmd.Flags().String("title", "", "session title")
	sessionCreateCmd.Flags().String("topic", "", "free-text research topic")
	sessionCreateCmd.MarkFlagRequired("title")

	sessionPapersCmd.Flags().String("session", "", "session ID")
	sessionPapersCmd.MarkFlagRequired("session")

	sessionAddCmd.Flags().String("session", "", "session ID")
	sessionAddCmd.Flags().String("paper", "", "paper JSON file (default: stdin)")
	sessionAddCmd.Flags().Float64("relevance", 0, "relevance score (default 0.5)")
	sessionAddCmd.MarkFlagRequired("session")

	sessionUploadCmd.Flags().String("session", "", "session ID")
	sessionUploadCmd.Flags().String("pdf", "", "path to PDF file")
	sessionUploadCmd.Flags().String("title", "", "title override")
	sessionUploadCmd.MarkFlagRequired("session")
	sessionUploadCmd.MarkFlagRequired("pdf")

	sessionCmd.AddCommand(sessionCreateCmd, sessionListCmd, sessionPapersCmd, sessionAddCmd, sessionUploadCmd)
	rootCmd.AddCommand(sessionCmd)
}
