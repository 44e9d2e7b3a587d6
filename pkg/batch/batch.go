// Package batch renders a directory of artwork files into projected
// mesh and texture assets using a bounded worker pool. Each artwork
// becomes a banner mesh wrapped onto the configured projection surface,
// written out as a mesh payload plus a WebP texture.
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/drapehq/drape/pkg/geometry"
	"github.com/drapehq/drape/pkg/projector"
	"github.com/drapehq/drape/pkg/source"
	"github.com/drapehq/drape/pkg/texture"
	"github.com/drapehq/drape/pkg/viewer"
)

// Config holds all shared settings for a batch run.
type Config struct {
	ArtworkDir string
	OutputDir  string
	Mode       string
	Params     map[string]float64
	Segments   int
	Emboss     float64
	TextureMax int
	Workers    int
	Log        *zap.Logger
}

// Result holds the outcome of processing one artwork file.
type Result struct {
	Name    string
	Mesh    string
	Texture string
	Success bool
	Error   string
}

// artworkExts lists the decodable artwork extensions.
var artworkExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tga":  true,
	".webp": true,
}

// Run processes every artwork file in cfg.ArtworkDir using a worker
// pool. Per-file failures land in the returned results; only setup
// problems are reported as an error.
func Run(cfg Config) ([]Result, error) {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Mode == "" {
		cfg.Mode = projector.ModeCylindrical
	}

	files, err := listArtwork(cfg.ArtworkDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		cfg.Log.Info("no artwork found", zap.String("dir", cfg.ArtworkDir))
		return nil, nil
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("batch: create output dir: %w", err)
	}

	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					cfg.Log.Info("batch progress",
						zap.Int64("done", p),
						zap.Int("total", total),
						zap.Float64("per_sec", float64(p)/elapsed))
				}
			}
		}
	}()

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for i, name := range files {
		g.Go(func() error {
			results[i] = processArtwork(cfg, name, i)
			processed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		close(done)
		return nil, err
	}
	close(done)

	ok := 0
	for _, r := range results {
		if r.Success {
			ok++
		}
	}
	cfg.Log.Info("batch complete",
		zap.Int("succeeded", ok),
		zap.Int("failed", total-ok),
		zap.Duration("elapsed", time.Since(start)))

	return results, nil
}

// processArtwork builds, projects and writes the assets for one file.
func processArtwork(cfg Config, name string, idx int) Result {
	res := Result{Name: name}

	img, err := source.LoadArtwork(filepath.Join(cfg.ArtworkDir, name))
	if err != nil {
		res.Error = err.Error()
		return res
	}

	geo, err := source.FromImage(img, source.BannerOptions{
		SegmentsX: cfg.Segments,
		Emboss:    cfg.Emboss,
	})
	if err != nil {
		res.Error = err.Error()
		return res
	}

	mesh := geometry.NewMesh(stem(name), geo)
	defer mesh.Release()

	// Each task gets its own manager; projection is single-threaded.
	mgr := projector.NewManager(cfg.Log)
	defer mgr.Dispose()

	if err := mgr.SwitchMode(cfg.Mode, mesh, projector.Options(cfg.Params)); err != nil {
		res.Error = err.Error()
		return res
	}

	payload := viewer.FromMesh(mesh, viewer.PickColor(idx), cfg.Mode)
	data, err := json.Marshal(payload)
	if err != nil {
		res.Error = fmt.Sprintf("mesh payload: %v", err)
		return res
	}

	base := filepath.Join(cfg.OutputDir, stem(name))
	meshPath := base + ".json"
	if err := os.WriteFile(meshPath, data, 0644); err != nil {
		res.Error = err.Error()
		return res
	}

	webp, err := texture.EncodeWebP(texture.FitPowerOfTwo(img, cfg.TextureMax))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	texPath := base + ".webp"
	if err := os.WriteFile(texPath, webp, 0644); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Mesh = meshPath
	res.Texture = texPath
	res.Success = true
	return res
}

// listArtwork returns the decodable files in dir, in directory order.
func listArtwork(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: read artwork dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if artworkExts[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
