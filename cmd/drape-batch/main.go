package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/drapehq/drape/pkg/batch"
	"github.com/drapehq/drape/pkg/config"
)

func main() {
	configFile := flag.String("config", "", "Path to drape.yaml")
	mode := flag.String("mode", "", "Projection mode (default: cylindrical)")
	artworkDir := flag.String("artwork", "", "Directory of artwork files")
	outputDir := flag.String("output", "", "Output directory (default: <artwork>/renders)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Mode:       *mode,
		ArtworkDir: *artworkDir,
		OutputDir:  *outputDir,
		Workers:    *workers,
	})

	if cfg.ArtworkDir == "" {
		fmt.Fprintln(os.Stderr, "Error: no artwork directory. Use -artwork flag or drape.yaml.")
		os.Exit(1)
	}

	log := buildLogger(*verbose)
	defer log.Sync()

	// Print summary
	fmt.Printf("Drape batch renderer\n")
	fmt.Printf("Artwork: %s, Mode: %s, Workers: %d\n", cfg.ArtworkDir, cfg.Mode, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results, err := batch.Run(batch.Config{
		ArtworkDir: cfg.ArtworkDir,
		OutputDir:  cfg.OutputDir,
		Mode:       cfg.Mode,
		Params:     cfg.Params,
		Segments:   cfg.Segments,
		Emboss:     cfg.Emboss,
		TextureMax: cfg.TextureMax,
		Workers:    cfg.Workers,
		Log:        log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(results))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func buildLogger(verbose bool) *zap.Logger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}

type Result = batch.Result
