// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/researchflow/researchflow/internal/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions over a session's sources",
	Long: `Chat answers questions grounded in a session's papers. The question
selects the most relevant sources, the model cites them by bracketed
tags, and both turns are recorded in the session history.`,
}

var chatAskCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the session's papers",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		question, _ := cmd.Flags().GetString("question")
		if question == "" {
			question = strings.Join(args, " ")
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		svc := &chat.Service{Store: s, Generator: newGenerator()}
		resp, err := svc.Ask(cmd.Context(), sessionID, question, os.Stderr)
		if err != nil {
			return err
		}

		fmt.Println(resp.Answer)
		fmt.Println()
		fmt.Println("Sources:")
		for _, src := range resp.Sources {
			fmt.Printf("  [%s] %s\n", src.Tag, src.Title)
		}
		return nil
	},
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a session's chat history",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		svc := &chat.Service{Store: s}
		messages, err := svc.History(cmd.Context(), sessionID)
		if err != nil {
			return err
		}
		for _, msg := range messages {
			fmt.Printf("%s [%s]:\n%s\n\n", msg.Role, msg.CreatedAt.Format("2006-01-02 15:04"), msg.Content)
		}
		return nil
	},
}

func init() {
	chatAskCmd.Flags().String("session", "", "session ID")
	chatAskCmd.Flags().String("question", "", "question to ask")
	chatAskCmd.MarkFlagRequired("session")

	chatHistoryCmd.Flags().String("session", "", "session ID")
	chatHistoryCmd.MarkFlagRequired("session")

	chatCmd.AddCommand(chatAskCmd, chatHistoryCmd)
	rootCmd.AddCommand(chatCmd)
}
