package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// defaultConfigHeader is prepended to a generated config file so operators
// see what can be tuned without reading the docs.
const defaultConfigHeader = `# curio daemon configuration.
#
# listen:    HTTP API listen address.
# db_path:   SQLite database file; empty runs in-memory.
# registry.maximum_owned: collection size limit per account.
# bank.accounts: opening balances, account id -> amount.
`

// fileConfig mirrors Config with yaml tags so generated files use the same
// key names viper reads back.
type fileConfig struct {
	Listen    string `yaml:"listen"`
	DBPath    string `yaml:"db_path"`
	Registry  struct {
		MaximumOwned uint32 `yaml:"maximum_owned"`
	} `yaml:"registry"`
	Processor struct {
		QueueCapacity int    `yaml:"queue_capacity"`
		DedupWindow   string `yaml:"dedup_window"`
	} `yaml:"processor"`
	Bank      struct {
		Accounts map[string]uint64 `yaml:"accounts"`
	} `yaml:"bank"`
	Log       struct {
		Level string `yaml:"level"`
		File  string `yaml:"file,omitempty"`
	} `yaml:"log"`
	Tracing   struct {
		Enabled  bool   `yaml:"enabled"`
		Exporter string `yaml:"exporter"`
	} `yaml:"tracing"`
}

// WriteDefault writes a commented default config file to path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	def := Default()
	var fc fileConfig
	fc.Listen = def.Listen
	fc.DBPath = def.DBPath
	fc.Registry.MaximumOwned = def.Registry.MaximumOwned
	fc.Processor.QueueCapacity = def.Processor.QueueCapacity
	fc.Processor.DedupWindow = def.Processor.DedupWindow.String()
	fc.Bank.Accounts = def.Bank.Accounts
	fc.Log.Level = def.Log.Level
	fc.Tracing.Enabled = def.Tracing.Enabled
	fc.Tracing.Exporter = def.Tracing.Exporter

	body, err := yaml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	data := append([]byte(defaultConfigHeader+"\n"), body...)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
