package batch

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drapehq/drape/pkg/viewer"
)

// writeArtwork drops a small PNG into dir.
func writeArtwork(t *testing.T, dir, name string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 16), uint8(y * 16), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode artwork: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0644); err != nil {
		t.Fatalf("write artwork: %v", err)
	}
}

func TestRunProcessesDirectory(t *testing.T) {
	art := t.TempDir()
	out := t.TempDir()
	writeArtwork(t, art, "alpha.png")
	writeArtwork(t, art, "beta.png")

	results, err := Run(Config{
		ArtworkDir: art,
		OutputDir:  out,
		Mode:       "cylindrical",
		Segments:   4,
		Workers:    2,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	for _, r := range results {
		if !r.Success {
			t.Fatalf("%s failed: %s", r.Name, r.Error)
		}

		data, err := os.ReadFile(r.Mesh)
		if err != nil {
			t.Fatalf("read mesh payload: %v", err)
		}
		var p viewer.MeshPayload
		if err := json.Unmarshal(data, &p); err != nil {
			t.Fatalf("parse mesh payload: %v", err)
		}
		// 4 segments on square artwork: a 5x5 vertex grid.
		if len(p.Vertices) != 75 {
			t.Errorf("%s: %d vertex floats, want 75", r.Name, len(p.Vertices))
		}
		if p.Mode != "cylindrical" {
			t.Errorf("%s: mode = %q, want cylindrical", r.Name, p.Mode)
		}

		tex, err := os.ReadFile(r.Texture)
		if err != nil {
			t.Fatalf("read texture: %v", err)
		}
		if len(tex) < 12 || string(tex[0:4]) != "RIFF" || string(tex[8:12]) != "WEBP" {
			t.Errorf("%s: texture is not webp", r.Name)
		}
	}
}

func TestRunSkipsNonArtwork(t *testing.T) {
	art := t.TempDir()
	writeArtwork(t, art, "keep.png")
	if err := os.WriteFile(filepath.Join(art, "notes.txt"), []byte("not artwork"), 0644); err != nil {
		t.Fatal(err)
	}

	results, err := Run(Config{ArtworkDir: art, OutputDir: t.TempDir(), Segments: 2})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 1 || results[0].Name != "keep.png" {
		t.Fatalf("expected only keep.png, got %v", results)
	}
}

func TestRunIsolatesBadFiles(t *testing.T) {
	art := t.TempDir()
	writeArtwork(t, art, "good.png")
	if err := os.WriteFile(filepath.Join(art, "broken.png"), []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}

	results, err := Run(Config{ArtworkDir: art, OutputDir: t.TempDir(), Segments: 2, Workers: 2})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}
	if byName["good.png"].Success != true {
		t.Errorf("good.png failed: %s", byName["good.png"].Error)
	}
	bad := byName["broken.png"]
	if bad.Success {
		t.Error("broken.png should have failed")
	}
	if bad.Error == "" {
		t.Error("broken.png should carry an error message")
	}
}

func TestRunUnknownModeFailsPerFile(t *testing.T) {
	art := t.TempDir()
	writeArtwork(t, art, "a.png")

	results, err := Run(Config{ArtworkDir: art, OutputDir: t.TempDir(), Mode: "toroidal", Segments: 2})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 1 || results[0].Success {
		t.Fatal("expected per-file failure for unknown mode")
	}
	if !strings.Contains(results[0].Error, "unknown mode") {
		t.Errorf("error = %q, want mention of unknown mode", results[0].Error)
	}
}

func TestRunMissingDir(t *testing.T) {
	_, err := Run(Config{ArtworkDir: filepath.Join(t.TempDir(), "absent")})
	if err == nil {
		t.Fatal("expected error for missing artwork dir")
	}
}

func TestRunEmptyDir(t *testing.T) {
	results, err := Run(Config{ArtworkDir: t.TempDir(), OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}
