// Package pipeline assembles the editor service from its pieces: SQLite
// store, cleanup rule tables, address rewriter and the HTTP surface.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/forthview/scribe/internal/api"
	"github.com/forthview/scribe/internal/domain/address"
	"github.com/forthview/scribe/internal/domain/cleanup"
	"github.com/forthview/scribe/internal/store"
	"github.com/forthview/scribe/internal/usecase"
)

type Config struct {
	// DBPath is the SQLite file; parent directories are created on start.
	DBPath string

	Port       int
	UploadsDir string

	// NamesFile is an optional JSON object of misspelling -> canonical
	// name, merged into the cleanup rules and the rewrite gender table.
	NamesFile string

	// FillersFile is an optional JSON array replacing the default filler
	// word list.
	FillersFile string

	Logf func(format string, args ...any)
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db path is empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	if c.UploadsDir == "" {
		return errors.New("uploads dir is empty")
	}
	for _, f := range []string{c.NamesFile, c.FillersFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("stat %s: %w", f, err)
		}
	}
	return nil
}

// Run starts the service and blocks until ctx is canceled, then drains
// in-flight requests before returning.
func Run(ctx context.Context, cfg Config) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.UploadsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	logf("store: %s", cfg.DBPath)

	clean, err := buildCleanup(cfg.NamesFile, cfg.FillersFile)
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Deps{
		DB:         db,
		Clean:      clean,
		Rewrite:    buildRewriter(clean.NameMap),
		UploadsDir: cfg.UploadsDir,
		Logf:       logf,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.New(uc, db, cfg.UploadsDir, logf).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
			return
		}
		errc <- nil
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}

// buildCleanup assembles the rule tables from the optional JSON files.
func buildCleanup(namesFile, fillersFile string) (*cleanup.Config, error) {
	clean := &cleanup.Config{
		Fillers: cleanup.DefaultFillers,
		NameMap: map[string]string{},
	}

	if namesFile != "" {
		raw := map[string]string{}
		if err := readJSON(namesFile, &raw); err != nil {
			return nil, fmt.Errorf("names file: %w", err)
		}
		for k, v := range raw {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" && strings.TrimSpace(v) != "" {
				clean.NameMap[k] = strings.TrimSpace(v)
			}
		}
	}
	if fillersFile != "" {
		var fillers []string
		if err := readJSON(fillersFile, &fillers); err != nil {
			return nil, fmt.Errorf("fillers file: %w", err)
		}
		clean.Fillers = fillers
	}

	clean.Compile()
	return clean, nil
}

// buildRewriter seeds the address rewriter with the canonical names from
// the cleanup table. Genders are not configured per name; everyone gets the
// neutral reflexive.
func buildRewriter(nameMap map[string]string) address.Rewriter {
	genders := map[string]address.Gender{}
	for _, canonical := range nameMap {
		genders[strings.ToLower(canonical)] = address.Neutral
	}
	return address.Rewriter{Genders: genders}
}

func readJSON(path string, dst any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
