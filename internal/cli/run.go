package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/forthview/scribe/internal/pipeline"
	"github.com/spf13/cobra"
)

const defaultPort = 8787

func run(cmd *cobra.Command) error {
	dbPath, _ := cmd.Flags().GetString("db")
	port, _ := cmd.Flags().GetInt("port")
	uploads, _ := cmd.Flags().GetString("uploads")
	names, _ := cmd.Flags().GetString("names")
	fillers, _ := cmd.Flags().GetString("fillers")

	if port == 0 {
		port = defaultPort
		if raw := os.Getenv("SCRIBE_PORT"); raw != "" {
			p, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("SCRIBE_PORT: %w", err)
			}
			port = p
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := pipeline.Config{
		DBPath:      dbPath,
		Port:        port,
		UploadsDir:  uploads,
		NamesFile:   names,
		FillersFile: fillers,
		Logf:        log.Printf,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, cfg)
}
