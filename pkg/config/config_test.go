package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/stackfold/pkg/errors"
)

func TestDefaultValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
auto_layout = true

[layout]
algorithm = "neato"
spacing = 24.0
animate = "500ms"
max_passes = 3
debounce = "50ms"
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !cfg.AutoLayout {
		t.Error("AutoLayout = false, want true")
	}
	if cfg.Layout.Algorithm != "neato" {
		t.Errorf("Algorithm = %q, want neato", cfg.Layout.Algorithm)
	}
	if cfg.Layout.Spacing != 24 {
		t.Errorf("Spacing = %v, want 24", cfg.Layout.Spacing)
	}
	if cfg.Layout.Animate.Std() != 500*time.Millisecond {
		t.Errorf("Animate = %v, want 500ms", cfg.Layout.Animate.Std())
	}
	if cfg.Layout.MaxPasses != 3 {
		t.Errorf("MaxPasses = %d, want 3", cfg.Layout.MaxPasses)
	}
	if cfg.Layout.Debounce.Std() != 50*time.Millisecond {
		t.Errorf("Debounce = %v, want 50ms", cfg.Layout.Debounce.Std())
	}
	// Untouched keys keep their defaults.
	if cfg.Layout.Padding != DefaultPadding {
		t.Errorf("Padding = %v, want %v", cfg.Layout.Padding, DefaultPadding)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"syntax", `[layout`, errors.ErrCodeInvalidConfig},
		{"unknown key", "[layout]\nspaceing = 3.0", errors.ErrCodeInvalidConfig},
		{"bad duration", "[layout]\ndebounce = \"soon\"", errors.ErrCodeInvalidConfig},
		{"bad algorithm", "[layout]\nalgorithm = \"spring\"", errors.ErrCodeInvalidAlgorithm},
		{"zero passes", "[layout]\nmax_passes = 0", errors.ErrCodeInvalidConfig},
		{"negative spacing", "[layout]\nspacing = -1.0", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %v, want %v (%v)", got, tt.code, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	if cfg, err := Load(""); err != nil || cfg != Default() {
		t.Errorf("Load(\"\") = %+v, %v, want defaults", cfg, err)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}

	path := filepath.Join(t.TempDir(), "stackfold.toml")
	if err := os.WriteFile(path, []byte("auto_layout = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.AutoLayout {
		t.Error("AutoLayout = false, want true")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	want := Default()
	want.AutoLayout = true
	want.Layout.Debounce = Duration(time.Second)

	data, err := want.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Encode()) error: %v\n%s", err, data)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLayoutOptions(t *testing.T) {
	opts := Default().Layout.LayoutOptions()
	if opts.Algorithm != DefaultAlgorithm || opts.Spacing != DefaultSpacing || opts.Animate != DefaultAnimate {
		t.Errorf("LayoutOptions() = %+v", opts)
	}
}
