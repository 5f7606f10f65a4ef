package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "scribe",
		Short:        "Transcript editing service: import, clean up, recalibrate and export session transcripts",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("db", getenvDefault("SCRIBE_DB", "data/scribe.db"), "SQLite database file")
	root.Flags().Int("port", 0, "Listen port (defaults to SCRIBE_PORT or 8787)")
	root.Flags().String("uploads", getenvDefault("SCRIBE_UPLOADS", "data/uploads"), "Directory for uploaded audio")
	root.Flags().String("names", os.Getenv("SCRIBE_NAMES"), "JSON file mapping misspellings to canonical names")
	root.Flags().String("fillers", os.Getenv("SCRIBE_FILLERS"), "JSON file with the filler word list")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
