// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/researchflow/researchflow/internal/draft"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Generate a draft from a session's sources",
	Long: `Draft writes a summary or literature review grounded in the papers
most relevant to the session topic. Sources are cited inline by their
bracketed tags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		styleStr, _ := cmd.Flags().GetString("style")

		style, err := draft.ParseStyle(styleStr)
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		svc := &draft.Service{Store: s, Generator: newGenerator()}
		text, err := svc.Generate(cmd.Context(), sessionID, style)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	draftCmd.Flags().String("session", "", "session ID")
	draftCmd.Flags().String("style", "literature_review", "draft style: summary or literature_review")
	draftCmd.MarkFlagRequired("session")

	rootCmd.AddCommand(draftCmd)
}
