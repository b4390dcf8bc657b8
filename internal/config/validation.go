package config

import (
	"fmt"
	"net/url"
	"strings"
)

func validate(c *Config) error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if strings.TrimSpace(c.App.HTTPAddr) == "" {
		return fmt.Errorf("app.http_addr cannot be empty")
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path cannot be empty")
	}
	if c.Account.InitialBalance < 0 {
		return fmt.Errorf("account.initial_balance cannot be negative: %v", c.Account.InitialBalance)
	}
	if c.Goals.Daily < 0 || c.Goals.Weekly < 0 || c.Goals.Monthly < 0 {
		return fmt.Errorf("goals cannot be negative")
	}
	if u := strings.TrimSpace(c.Calendar.UpstreamURL); u != "" {
		parsed, err := url.Parse(u)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("calendar.upstream_url is not a valid URL: %s", u)
		}
	}
	return nil
}
