package fleet

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Hamed-de0/conduit-dashboard/pkg/defaults"
	"github.com/Hamed-de0/conduit-dashboard/pkg/errors"
	"github.com/Hamed-de0/conduit-dashboard/pkg/file"
	"gopkg.in/yaml.v3"
)

const (
	minFields = 5
	maxFields = 6
)

// LoadTargets reads the pipe-delimited fleet definition at path.
//
// Each line is alias|user|address|port|password|comment. Comment lines
// and blanks are skipped by the parser. Malformed records, lines with
// fewer than five fields or a missing alias, user or address, are
// skipped with a warning. An empty port falls back to 22. Duplicate
// aliases keep the first occurrence; later ones are skipped with a
// warning. One typo never takes down the whole fleet.
func LoadTargets(path string) ([]Target, error) {
	parser := file.NewParser(file.WithFieldDelimiter("|"))
	records, err := parser.GetFields(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to read targets file %s", path), err)
	}

	targets := make([]Target, 0, len(records))
	seen := make(map[string]bool, len(records))

	for i, rec := range records {
		if len(rec) < minFields {
			slog.Warn("malformed record in targets file, skipping",
				"record", i+1, "fields", len(rec), "expected", minFields)
			continue
		}

		t := Target{
			Alias:    rec[0],
			User:     rec[1],
			Addr:     rec[2],
			Port:     rec[3],
			Password: rec[4],
		}
		if len(rec) >= maxFields {
			t.Comment = rec[5]
		}
		if t.Port == "" {
			t.Port = "22"
		}

		if t.Alias == "" || t.User == "" || t.Addr == "" {
			slog.Warn("record in targets file missing alias, user or address, skipping",
				"record", i+1)
			continue
		}

		if seen[t.Alias] {
			slog.Warn("duplicate alias in targets file, skipping",
				"alias", t.Alias, "record", i+1)
			continue
		}
		seen[t.Alias] = true
		targets = append(targets, t)
	}

	return targets, nil
}

// Settings is the optional YAML configuration for the collector. Every
// field has a working default so the file itself is optional.
type Settings struct {
	// TargetsFile is the path to the pipe-delimited fleet definition.
	TargetsFile string `yaml:"targetsFile"`

	// HistoryFile is the path to the persisted connection history.
	HistoryFile string `yaml:"historyFile"`

	// RefreshInterval is the period between collection cycles.
	RefreshInterval time.Duration `yaml:"refreshInterval"`

	// RemoteTimeout bounds every remote command.
	RemoteTimeout time.Duration `yaml:"remoteTimeout"`

	// Workers is the probing parallelism.
	Workers int `yaml:"workers"`

	// Retention is the history pruning window.
	Retention time.Duration `yaml:"retention"`

	// Port is the dashboard API port.
	Port int `yaml:"port"`
}

// UnmarshalYAML decodes durations from strings like "30s". Fields
// absent from the document keep whatever value the receiver already
// holds, which lets LoadSettings layer the file over the defaults.
func (s *Settings) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		TargetsFile     string `yaml:"targetsFile"`
		HistoryFile     string `yaml:"historyFile"`
		RefreshInterval string `yaml:"refreshInterval"`
		RemoteTimeout   string `yaml:"remoteTimeout"`
		Workers         *int   `yaml:"workers"`
		Retention       string `yaml:"retention"`
		Port            *int   `yaml:"port"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.TargetsFile != "" {
		s.TargetsFile = raw.TargetsFile
	}
	if raw.HistoryFile != "" {
		s.HistoryFile = raw.HistoryFile
	}
	if raw.Workers != nil {
		s.Workers = *raw.Workers
	}
	if raw.Port != nil {
		s.Port = *raw.Port
	}

	for _, f := range []struct {
		raw string
		dst *time.Duration
	}{
		{raw.RefreshInterval, &s.RefreshInterval},
		{raw.RemoteTimeout, &s.RemoteTimeout},
		{raw.Retention, &s.Retention},
	} {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", f.raw, err)
		}
		*f.dst = d
	}

	return nil
}

// DefaultSettings returns a Settings populated with the stock values.
func DefaultSettings() Settings {
	return Settings{
		TargetsFile:     defaults.TargetsFile,
		HistoryFile:     defaults.HistoryFile,
		RefreshInterval: defaults.RefreshInterval,
		RemoteTimeout:   defaults.RemoteTimeout,
		Workers:         defaults.ProbeWorkers,
		Retention:       defaults.HistoryRetention,
		Port:            defaults.ServerPort,
	}
}

// LoadSettings reads a YAML settings file, layering it over the
// defaults. A missing file is not an error; it yields the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, errors.Wrap(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to read settings file %s", path), err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to parse settings file %s", path), err)
	}

	if s.Workers <= 0 {
		s.Workers = defaults.ProbeWorkers
	}
	if s.RefreshInterval <= 0 {
		s.RefreshInterval = defaults.RefreshInterval
	}
	if s.RemoteTimeout <= 0 {
		s.RemoteTimeout = defaults.RemoteTimeout
	}
	if s.Retention <= 0 {
		s.Retention = defaults.HistoryRetention
	}
	if s.Port <= 0 {
		s.Port = defaults.ServerPort
	}

	return s, nil
}
