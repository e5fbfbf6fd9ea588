package cmd

import (
	"testing"

	"github.com/hargabyte/eqg/internal/config"
)

func TestDecodeInputByExtension(t *testing.T) {
	jsonData := []byte(`{"core_company": "Acme"}`)
	yamlData := []byte("core_company: Acme\n")

	ds, err := decodeInput(jsonData, "data.json")
	if err != nil {
		t.Fatalf("json decode failed: %v", err)
	}
	if ds.CoreCompany != "Acme" {
		t.Errorf("CoreCompany = %q, want Acme", ds.CoreCompany)
	}

	ds, err = decodeInput(yamlData, "data.yaml")
	if err != nil {
		t.Fatalf("yaml decode failed: %v", err)
	}
	if ds.CoreCompany != "Acme" {
		t.Errorf("CoreCompany = %q, want Acme", ds.CoreCompany)
	}
}

func TestDecodeInputSniffsContent(t *testing.T) {
	// stdin has no extension; the decoder picks by leading brace
	ds, err := decodeInput([]byte(`  {"core_company": "Acme"}`), "stdin")
	if err != nil {
		t.Fatalf("sniffed json decode failed: %v", err)
	}
	if ds.CoreCompany != "Acme" {
		t.Errorf("CoreCompany = %q, want Acme", ds.CoreCompany)
	}

	ds, err = decodeInput([]byte("core_company: Acme\n"), "stdin")
	if err != nil {
		t.Fatalf("sniffed yaml decode failed: %v", err)
	}
	if ds.CoreCompany != "Acme" {
		t.Errorf("CoreCompany = %q, want Acme", ds.CoreCompany)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Render.Direction = "LR"
	cfg.Render.NodeSpacing = 150
	cfg.Render.LevelIterations = 5
	cfg.Render.EdgeLabelLimit = 12

	opts := optionsFromConfig(cfg)
	if opts.Direction != "LR" {
		t.Errorf("Direction = %q, want LR", opts.Direction)
	}
	if opts.NodeSpacing != 150 {
		t.Errorf("NodeSpacing = %v, want 150", opts.NodeSpacing)
	}
	if opts.LevelIterations != 5 {
		t.Errorf("LevelIterations = %d, want 5", opts.LevelIterations)
	}
	if opts.EdgeLabelLimit != 12 {
		t.Errorf("EdgeLabelLimit = %d, want 12", opts.EdgeLabelLimit)
	}
}

func TestNormalizeToolName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"render", "eqg_render"},
		{"eqg_render", "eqg_render"},
		{"datasets", "eqg_datasets"},
	}
	for _, tt := range tests {
		if got := normalizeToolName(tt.in); got != tt.want {
			t.Errorf("normalizeToolName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
