package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Monday   MondayConfig   `toml:"monday"`
	Rules    RulesConfig    `toml:"rules"`
	Report   ReportConfig   `toml:"report"`
	Logging  LoggingConfig  `toml:"logging"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type MondayConfig struct {
	APIURL          string `toml:"api_url"`
	BoardID         string `toml:"board_id"`
	TokenFile       string `toml:"token_file"`
	DepartmentIndex int    `toml:"department_index"`

	DepartmentColumn    string   `toml:"department_column"`
	PeopleColumn        string   `toml:"people_column"`
	FilmingDateColumns  []string `toml:"filming_date_columns"`
	EditingRangeColumns []string `toml:"editing_range_columns"`
}

type RulesConfig struct {
	FilmingHoursPerDay float64 `toml:"filming_hours_per_day"`
	EditingHoursPerDay float64 `toml:"editing_hours_per_day"`
	MaxHoursPerDay     float64 `toml:"max_hours_per_day"`
}

type ReportConfig struct {
	OutputDir      string `toml:"output_dir"`
	LeadPerson     string `toml:"lead_person"`
	ForecastMonths int    `toml:"forecast_months"`
}

type LoggingConfig struct {
	Level   string `toml:"level"`
	DevFile string `toml:"dev_file"`
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Monday: MondayConfig{
			APIURL:              "https://api.monday.com/v2",
			DepartmentColumn:    "status_1",
			DepartmentIndex:     17,
			PeopleColumn:        "people",
			FilmingDateColumns:  []string{"date", "date_1", "date_2", "date_3"},
			EditingRangeColumns: []string{"timeline", "timeline_1", "timeline_2"},
		},
		Rules: RulesConfig{
			FilmingHoursPerDay: 4,
			EditingHoursPerDay: 8,
			MaxHoursPerDay:     8,
		},
		Report: ReportConfig{
			OutputDir:      ".",
			ForecastMonths: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a TOML file over the given defaults. A missing or empty file
// leaves the defaults untouched.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}

	if strings.TrimSpace(c.Monday.APIURL) == "" {
		return errors.New("monday.api_url is required")
	}
	if c.Monday.DepartmentIndex < 0 {
		return fmt.Errorf("monday.department_index must be >= 0, got %d", c.Monday.DepartmentIndex)
	}
	seenColumn := map[string]struct{}{}
	for i, col := range append(append([]string{}, c.Monday.FilmingDateColumns...), c.Monday.EditingRangeColumns...) {
		id := strings.TrimSpace(col)
		if id == "" {
			return fmt.Errorf("monday date column %d is empty", i)
		}
		if _, ok := seenColumn[id]; ok {
			return fmt.Errorf("monday date column %q is duplicated", id)
		}
		seenColumn[id] = struct{}{}
	}

	if c.Rules.FilmingHoursPerDay <= 0 {
		return fmt.Errorf("rules.filming_hours_per_day must be > 0, got %v", c.Rules.FilmingHoursPerDay)
	}
	if c.Rules.EditingHoursPerDay <= 0 {
		return fmt.Errorf("rules.editing_hours_per_day must be > 0, got %v", c.Rules.EditingHoursPerDay)
	}
	if c.Rules.MaxHoursPerDay <= 0 {
		return fmt.Errorf("rules.max_hours_per_day must be > 0, got %v", c.Rules.MaxHoursPerDay)
	}

	if c.Report.ForecastMonths < 0 {
		return fmt.Errorf("report.forecast_months must be >= 0, got %d", c.Report.ForecastMonths)
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
