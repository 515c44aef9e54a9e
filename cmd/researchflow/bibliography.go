// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/researchflow/researchflow/internal/bibliography"
)

var bibliographyCmd = &cobra.Command{
	Use:   "bibliography",
	Short: "Export a session's sources as a reference list",
	Long: `Bibliography renders all papers in a session as a reference list in
BibTeX, APA, MLA, or IEEE style.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		styleStr, _ := cmd.Flags().GetString("style")

		style, err := bibliography.ParseStyle(styleStr)
		if err != nil {
			return err
		}

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
			fmt.Fprintln(os.Stderr, "no sources in session")
			return nil
		}

		refs := make([]bibliography.Reference, len(papers))
		for i, p := range papers {
			refs[i] = bibliography.FromPaper(p)
		}

		bib, err := bibliography.Generate(refs, style)
		if err != nil {
			return err
		}
		fmt.Println(bib.Text)
		return nil
	},
}

func init() {
	bibliographyCmd.Flags().String("session", "", "session ID")
	bibliographyCmd.Flags().String("style", "bibtex", "citation style: bibtex, apa, mla, ieee")
	bibliographyCmd.MarkFlagRequired("session")

	rootCmd.AddCommand(bibliographyCmd)
}
