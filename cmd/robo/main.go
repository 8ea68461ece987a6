package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yash-755/robo/internal/config"
	"github.com/yash-755/robo/pkg/logx"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:           "robo",
	Short:         "Robo, the portfolio chat assistant",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable coloured output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and initialises logging to match it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	logx.Init(logx.Options{
		Production: cfg.Environment().IsProduction(),
		Level:      cfg.Log.Level,
	})
	return cfg, nil
}
