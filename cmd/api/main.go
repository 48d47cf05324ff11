package main

import (
	"fmt"
	"os"

	"github.com/persona-lab/persona-backend/config"
	"github.com/persona-lab/persona-backend/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envFile string
	port    string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "persona-backend",
	Short: "Persona generator API",
	Long: `Serves the persona generator JSON API: projects, base personas,
batched AI persona generation and PDF export.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		var err error
		cfg, err = config.Load(files...)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if port != "" {
			cfg.Server.Port = port
		}

		logger, err = logging.New(cfg.App.Environment, cfg.App.LogLevel)
		if err != nil {
			return err
		}
		for _, w := range cfg.Warnings {
			logger.Warn(w)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		v := os.Getenv("APP_VERSION")
		if v == "" {
			v = "dev"
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load instead of .env")
	rootCmd.PersistentFlags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")

	rootCmd.AddCommand(serveCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
