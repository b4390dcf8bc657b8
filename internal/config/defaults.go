package config

import "strings"

const (
	defaultAppEnv              = "dev"
	defaultAppLogLevel         = "info"
	defaultAppHTTPAddr         = ":9981"
	defaultAppLogPath          = "data/logs/tradevo.log"
	defaultStorePath           = "data/db/journal.db"
	defaultAccountBalance      = 10000
	defaultWebhookKeyPrefix    = "mt5_"
	defaultCalendarUpstreamURL = "https://nfs.faireconomy.media/ff_calendar_thisweek.json"
	defaultCalendarCacheTTL    = 900
	defaultCalendarTimeout     = 10
	defaultSymbolsPath         = "configs/symbols.yaml"
	defaultReportOutputDir     = "data/reports"
)

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Store.applyDefaults(keys)
	c.Account.applyDefaults(keys)
	c.Webhook.applyDefaults(keys)
	c.Calendar.applyDefaults(keys)
	c.Symbols.applyDefaults(keys)
	c.Report.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
		stringFieldDefault("app.log_path", &a.LogPath, defaultAppLogPath),
	)
}

func (s *StoreConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("store.path", &s.Path, defaultStorePath),
	)
}

func (a *AccountConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "account.initial_balance",
			need:  func() bool { return a.InitialBalance <= 0 },
			apply: func() { a.InitialBalance = defaultAccountBalance },
		},
	)
}

func (w *WebhookConfig) applyDefaults(keys keySet) {
	if w == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("webhook.key_prefix", &w.KeyPrefix, defaultWebhookKeyPrefix),
	)
}

func (c *CalendarConfig) applyDefaults(keys keySet) {
	if c == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("calendar.upstream_url", &c.UpstreamURL, defaultCalendarUpstreamURL),
		fieldDefault{
			key:   "calendar.cache_ttl_seconds",
			need:  func() bool { return c.CacheTTLSeconds <= 0 },
			apply: func() { c.CacheTTLSeconds = defaultCalendarCacheTTL },
		},
		fieldDefault{
			key:   "calendar.timeout_seconds",
			need:  func() bool { return c.TimeoutSeconds <= 0 },
			apply: func() { c.TimeoutSeconds = defaultCalendarTimeout },
		},
	)
}

func (s *SymbolsConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("symbols.path", &s.Path, defaultSymbolsPath),
	)
}

func (r *ReportConfig) applyDefaults(keys keySet) {
	if r == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("report.output_dir", &r.OutputDir, defaultReportOutputDir),
	)
}

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
