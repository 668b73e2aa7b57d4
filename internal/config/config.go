package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
)

type Layout struct {
	BytesPerRow int `toml:"bytes_per_row"`
	RowsPerPage int `toml:"rows_per_page"`
}

type Theme struct {
	Background          string `toml:"background"`
	CursorBackground    string `toml:"cursor_background"`
	CursorHexBackground string `toml:"cursor_hex_background"`
	ModifiedColor       string `toml:"modified_color"`
	SelectionBackground string `toml:"selection_background"`
	OffsetColor         string `toml:"offset_color"`
	LegendBackground    string `toml:"legend_background"`
	LegendHighlight     string `toml:"legend_highlight"`
	BorderColor         string `toml:"border_color"`
	StatusColor         string `toml:"status_color"`
	DisabledColor       string `toml:"disabled_color"`
}

type Config struct {
	Layout Layout `toml:"layout"`
	Theme  Theme  `toml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		Layout: Layout{
			BytesPerRow: 16,
			RowsPerPage: 32,
		},
		Theme: Theme{
			Background:          "#000000",
			CursorBackground:    "#0000FF",
			CursorHexBackground: "#FF0000",
			ModifiedColor:       "#FFAA00",
			SelectionBackground: "#FFAA00",
			OffsetColor:         "#888888",
			LegendBackground:    "#0000FF",
			LegendHighlight:     "#FF0000",
			BorderColor:         "#0000FF",
			StatusColor:         "#FFFFFF",
			DisabledColor:       "#666666",
		},
	}
}

func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "overhex.toml"
	}
	return filepath.Join(home, ".config", "overhex", "overhex.toml")
}

func Load() (*Config, error) {
	cfg := DefaultConfig()
	path := ConfigPath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return cfg, err
	}

	if cfg.Layout.BytesPerRow <= 0 {
		cfg.Layout.BytesPerRow = 16
	}
	if cfg.Layout.RowsPerPage <= 0 {
		cfg.Layout.RowsPerPage = 32
	}

	return cfg, nil
}

func (c *Config) Save() error {
	path := ConfigPath()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

type Styles struct {
	Background      lipgloss.Style
	CursorNormal    lipgloss.Style
	CursorHex       lipgloss.Style
	Modified        lipgloss.Style
	Selection       lipgloss.Style
	Offset          lipgloss.Style
	Legend          lipgloss.Style
	LegendHighlight lipgloss.Style
	Border          lipgloss.Style
	Status          lipgloss.Style
	Disabled        lipgloss.Style
	Normal          lipgloss.Style
}

func NewStyles(theme *Theme) *Styles {
	return &Styles{
		Background: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.Background)),
		CursorNormal: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.CursorBackground)).
			Foreground(lipgloss.Color("#FFFFFF")),
		CursorHex: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.CursorHexBackground)).
			Foreground(lipgloss.Color("#FFFFFF")),
		Modified: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ModifiedColor)),
		Selection: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.SelectionBackground)).
			Foreground(lipgloss.Color("#000000")),
		Offset: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.OffsetColor)),
		Legend: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.LegendBackground)).
			Foreground(lipgloss.Color("#FFFFFF")),
		LegendHighlight: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.LegendBackground)).
			Foreground(lipgloss.Color(theme.LegendHighlight)).
			Bold(true),
		Border: lipgloss.NewStyle().
			BorderForeground(lipgloss.Color(theme.BorderColor)),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.StatusColor)),
		Disabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.DisabledColor)),
		Normal: lipgloss.NewStyle(),
	}
}
