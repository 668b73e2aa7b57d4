package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Layout.BytesPerRow != 16 {
		t.Errorf("expected bytes_per_row 16, got %d", cfg.Layout.BytesPerRow)
	}
	if cfg.Layout.RowsPerPage != 32 {
		t.Errorf("expected rows_per_page 32, got %d", cfg.Layout.RowsPerPage)
	}
	if cfg.Theme.Background == "" {
		t.Error("expected default background color")
	}
}

func TestNewStyles(t *testing.T) {
	cfg := DefaultConfig()
	styles := NewStyles(&cfg.Theme)
	if styles == nil {
		t.Fatal("expected styles")
	}
}
