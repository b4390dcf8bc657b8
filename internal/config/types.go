package config

import "strings"

// Config is the top-level configuration for the tradevo server.
type Config struct {
	App      AppConfig      `toml:"app"`
	Store    StoreConfig    `toml:"store"`
	Account  AccountConfig  `toml:"account"`
	Goals    GoalsConfig    `toml:"goals"`
	Webhook  WebhookConfig  `toml:"webhook"`
	Calendar CalendarConfig `toml:"calendar"`
	Symbols  SymbolsConfig  `toml:"symbols"`
	Report   ReportConfig   `toml:"report"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	HTTPAddr string `toml:"http_addr"`
	LogPath  string `toml:"log_path"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

// AccountConfig seeds the account on first run; afterwards the stored
// balance wins.
type AccountConfig struct {
	InitialBalance float64 `toml:"initial_balance"`
}

type GoalsConfig struct {
	Daily   float64 `toml:"daily"`
	Weekly  float64 `toml:"weekly"`
	Monthly float64 `toml:"monthly"`
}

type WebhookConfig struct {
	Enabled   bool   `toml:"enabled"`
	KeyPrefix string `toml:"key_prefix"`
}

type CalendarConfig struct {
	UpstreamURL     string `toml:"upstream_url"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

type SymbolsConfig struct {
	Path string `toml:"path"`
}

type ReportConfig struct {
	OutputDir string `toml:"output_dir"`
}

// keySet tracks which config keys were explicitly present in the file, so
// defaults never clobber a deliberate zero value.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
