// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the biokg-search CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the biokg-search CLI.
var rootCmd = &cobra.Command{
	Use:   "biokg-search",
	Short: "Search a space-biology publication knowledge graph",
	Long: `biokg-search indexes structured extractions of space-biology papers into a
SQLite knowledge graph and serves a search page over it.

Run "populate" to load PMC*_kg.json extraction files, "api" to serve the JSON
search endpoint, and "serve" to serve the search page that talks to it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(os.Stderr, viper.GetString("log.level"), viper.GetString("log.format"))
		if err != nil {
			return err
		}
		setLogger(logger)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./biokg-search.yaml or ~/.config/biokg-search/config.yaml)")
	pf.String("env-file", ".env", "dotenv file loaded before configuration")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")

	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))

	setDefaults(viper.GetViper())
}

func initConfig() {
	envFile, _ := rootCmd.PersistentFlags().GetString("env-file")
	if envFile != "" {
		// A missing .env file is normal outside development.
		if err := godotenv.Load(envFile); err == nil {
			fmt.Fprintln(os.Stderr, "Loaded environment from", envFile)
		}
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("biokg-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "biokg-search"))
		}
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
