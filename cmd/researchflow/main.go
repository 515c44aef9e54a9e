// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the researchflow CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/researchflow/researchflow/internal/generate"
	"github.com/researchflow/researchflow/internal/httputil"
	"github.com/researchflow/researchflow/internal/search"
	"github.com/researchflow/researchflow/internal/secrets"
	"github.com/researchflow/researchflow/internal/store"
	"github.com/researchflow/researchflow/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value
// for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the researchflow CLI.
var rootCmd = &cobra.Command{
	Use:   "researchflow",
	Short: "Search, collect, and write about academic literature",
	Long: `researchflow searches academic APIs (arXiv, Semantic Scholar, PubMed) for
papers, collects sources into research sessions, and generates grounded
answers, drafts, and bibliographies from them.

Each operation is a subcommand: search, session, chat, draft, and
bibliography.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./researchflow.yaml or ~/.config/researchflow/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("researchflow")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "researchflow"))
		}
	}

	viper.SetDefault("search.max_results", 10)
	viper.SetDefault("search.enable_arxiv", true)
	viper.SetDefault("search.enable_semantic_scholar", true)
	viper.SetDefault("search.enable_pubmed", true)
	viper.SetDefault("store.path", store.DefaultPath)
	viper.SetDefault("generation.model", generate.DefaultModel)

	viper.SetEnvPrefix("RESEARCHFLOW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// searchConfig assembles the search settings from config and secrets.
func searchConfig() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:        viper.GetDuration("search.timeout"),
			ConnectTimeout: viper.GetDuration("search.connect_timeout"),
			UserAgent:      "researchflow/" + version,
		},
		MaxResults:            viper.GetInt("search.max_results"),
		EnableArxiv:           viper.GetBool("search.enable_arxiv"),
		EnableSemanticScholar: viper.GetBool("search.enable_semantic_scholar"),
		EnablePubMed:          viper.GetBool("search.enable_pubmed"),
		SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", viper.GetString("search.semantic_scholar_api_key")),
	}
}

// buildProviders constructs the enabled search providers, each with its
// own HTTP client.
func buildProviders(cfg types.SearchConfig) []search.Provider {
	var providers []search.Provider
	if cfg.EnableArxiv {
		providers = append(providers, &search.ArxivProvider{
			Client:    httputil.NewClient(cfg.HTTPConfig),
			UserAgent: cfg.UserAgent,
		})
	}
	if cfg.EnableSemanticScholar {
		providers = append(providers, &search.SemanticScholarProvider{
			Client:    httputil.NewClient(cfg.HTTPConfig),
			APIKey:    cfg.SemanticScholarAPIKey,
			UserAgent: cfg.UserAgent,
		})
	}
	if cfg.EnablePubMed {
		providers = append(providers, search.NewPubMedProvider(
			httputil.NewClient(cfg.HTTPConfig), cfg.UserAgent))
	}
	return providers
}

// openStore opens the session database configured in store.path.
func openStore() (*store.Store, error) {
	return store.Open(types.StoreConfig{Path: viper.GetString("store.path")})
}

// newGenerator builds the text-generation backend from config and secrets.
func newGenerator() generate.Generator {
	return &generate.GroqBackend{
		APIKey: secretDefault("groq-api-key", viper.GetString("generation.api_key")),
		Model:  viper.GetString("generation.model"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
