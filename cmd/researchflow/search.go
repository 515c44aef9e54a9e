// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/researchflow/researchflow/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search academic APIs for papers",
	Long: `Search queries academic APIs (arXiv, Semantic Scholar, PubMed) for papers
matching a free-text topic or question. The query is refined to keywords,
results are deduplicated across sources, filtered by year, and ranked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		if query == "" {
			query = strings.Join(args, " ")
		}

		limit, _ := cmd.Flags().GetInt("limit")
		sortStr, _ := cmd.Flags().GetString("sort")
		mode, err := search.ParseSortMode(sortStr)
		if err != nil {
			return err
		}

		opts := search.Options{
			Query: query,
			Limit: limit,
			Sort:  mode,
		}
		if y, _ := cmd.Flags().GetInt("year-from"); y > 0 {
			opts.YearFrom = &y
		}
		if y, _ := cmd.Flags().GetInt("year-to"); y > 0 {
			opts.YearTo = &y
		}

		providers := buildProviders(searchConfig())
		out, err := search.Run(cmd.Context(), providers, opts, os.Stderr)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return search.FormatJSON(out, os.Stdout)
		}
		if asCSL, _ := cmd.Flags().GetBool("csl"); asCSL {
			return search.FormatCSL(out, os.Stdout)
		}
		search.FormatTable(out, os.Stdout)
		return nil
	},
}

func init() {
	searchCmd.Flags().String("query", "", "free-text research topic or question")
	searchCmd.Flags().Int("limit", 10, "maximum number of results to return")
	searchCmd.Flags().Int("year-from", 0, "only papers published in or after this year")
	searchCmd.Flags().Int("year-to", 0, "only papers published in or before this year")
	searchCmd.Flags().String("sort", "relevance", "sort order: relevance, citations, year")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("csl", false, "output results as CSL YAML")

	rootCmd.AddCommand(searchCmd)
}
