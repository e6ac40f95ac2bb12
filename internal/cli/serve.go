package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/forensia/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive web UI",
	Long: `Serve the justification page and its JSON API.

Each browser gets its own session: feature values, classification and the
last explanation are kept in memory until the session goes idle.

Example:
  forensia serve
  forensia serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	j := buildJustifier(cfg, logger)
	if j.ProviderName() == "" {
		fmt.Fprintf(os.Stderr, "warning: no generation backend available, every generate will fail\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, j, logger)
	fmt.Fprintf(os.Stderr, "Forensia listening on %s\n", cfg.Server.Addr)
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server failed", zap.Error(err))
		return err
	}
	return nil
}
