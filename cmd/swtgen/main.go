// Command swtgen generates and serves a science-fiction subsector: a
// dice-derived hex map of worlds a GM can mutate over HTTP, persist in
// named save slots, and export as SVG, markdown, CSV, or a compressed
// archive.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Absle/swt-gen/internal/api"
	"github.com/Absle/swt-gen/internal/config"
	"github.com/Absle/swt-gen/internal/export"
	"github.com/Absle/swt-gen/internal/persistence"
	"github.com/Absle/swt-gen/internal/subsector"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	exportDir := flag.String("export", "", "write svg/csv/markdown exports to this directory and exit")
	playerSafe := flag.Bool("player-safe", false, "export the redacted player variant")
	regenerate := flag.Bool("regenerate", false, "discard the saved slot and generate fresh")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755)
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	sub, err := loadOrGenerate(db, cfg, *regenerate)
	if err != nil {
		slog.Error("failed to prepare subsector", "error", err)
		os.Exit(1)
	}

	if *exportDir != "" {
		if err := writeExports(sub, *exportDir, *playerSafe); err != nil {
			slog.Error("export failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if cfg.AdminKey == "" {
		slog.Warn("SWTGEN_ADMIN_KEY not set, mutation endpoints disabled")
	}
	srv := api.NewServer(sub, db, cfg.Port, cfg.AdminKey, cfg.CORSOrigins)
	srv.Start()

	fmt.Printf("%s: %d worlds on a %dx%d grid\n", sub.Name, len(sub.Worlds), sub.Grid.Columns, sub.Grid.Rows)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	if _, err := db.SaveSlot(cfg.Slot, sub); err != nil {
		slog.Error("final save failed", "error", err)
	}
}

// loadOrGenerate restores the configured save slot, or rolls a fresh
// subsector when the slot is missing or regeneration was forced.
func loadOrGenerate(db *persistence.DB, cfg config.Config, regenerate bool) (*subsector.Subsector, error) {
	if !regenerate {
		sub, err := db.LoadSlot(cfg.Slot)
		if err == nil {
			return sub, nil
		}
		if !errors.Is(err, persistence.ErrNoSuchSlot) {
			return nil, err
		}
		slog.Info("no saved subsector, generating", "slot", cfg.Slot)
	}

	grid := subsector.Grid{Columns: cfg.Columns, Rows: cfg.Rows}
	sub, err := subsector.Generate(cfg.Name, cfg.Seed, cfg.AbundanceDM, grid)
	if err != nil {
		return nil, err
	}
	if _, err := db.SaveSlot(cfg.Slot, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func writeExports(sub *subsector.Subsector, dir string, playerSafe bool) error {
	if playerSafe {
		sub = subsector.Project(sub)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	csvDoc, err := export.RenderCSV(sub)
	if err != nil {
		return err
	}
	files := map[string]string{
		"subsector.svg": export.RenderSVG(sub),
		"subsector.md":  export.RenderMarkdown(sub),
		"subsector.csv": csvDoc,
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return err
		}
		slog.Info("export written", "path", path)
	}
	return nil
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
