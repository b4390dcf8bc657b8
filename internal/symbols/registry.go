// Package symbols serves the per-asset-class instrument catalog backing
// the trade entry form, loaded from a YAML file and hot-reloaded on change.
package symbols

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"tradevo/internal/journal"
	"tradevo/internal/logger"
)

// FileConfig maps the asset_pairs document.
type FileConfig struct {
	AssetPairs map[string][]string `yaml:"asset_pairs"`
}

// Snapshot is an immutable view of the catalog.
type Snapshot struct {
	Version  int64
	LoadedAt time.Time
	Pairs    map[journal.AssetClass][]string
}

// ChangeListener fires after the registry reloads.
type ChangeListener func(Snapshot)

// Registry watches the catalog file and hands out snapshots.
type Registry struct {
	path string
	v    *viper.Viper

	mu        sync.RWMutex
	snapshot  Snapshot
	listeners []ChangeListener
}

// NewRegistry reads the catalog and starts watching for edits.
func NewRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("symbols registry requires path")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read symbols config failed: %w", err)
	}
	r := &Registry{path: path, v: v}
	if err := r.reload(); err != nil {
		return nil, err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := r.reload(); err != nil {
			logger.Errorf("symbols reload failed: %v", err)
			return
		}
		r.notifyListeners()
	})
	v.WatchConfig()
	return r, nil
}

// Snapshot returns the current catalog.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSnapshot(r.snapshot)
}

// Pairs returns the symbols for one asset class.
func (r *Registry) Pairs(class journal.AssetClass) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pairs := r.snapshot.Pairs[class]
	out := make([]string, len(pairs))
	copy(out, pairs)
	return out
}

// ClassFor reverse-looks-up the asset class of a symbol. Falls back to
// FOREX for symbols outside the catalog.
func (r *Registry) ClassFor(symbol string) journal.AssetClass {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, class := range journal.AssetClasses() {
		for _, s := range r.snapshot.Pairs[class] {
			if s == symbol {
				return class
			}
		}
	}
	return journal.AssetForex
}

// OnChange registers a listener for catalog reloads.
func (r *Registry) OnChange(fn ChangeListener) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

func (r *Registry) reload() error {
	cfg, err := readSymbolsFile(r.path)
	if err != nil {
		return err
	}
	pairs := make(map[journal.AssetClass][]string)
	for name, list := range cfg.AssetPairs {
		class := journal.ParseAssetClass(name)
		cleaned := make([]string, 0, len(list))
		seen := make(map[string]struct{}, len(list))
		for _, raw := range list {
			sym := strings.ToUpper(strings.TrimSpace(raw))
			if sym == "" {
				continue
			}
			if _, ok := seen[sym]; ok {
				continue
			}
			seen[sym] = struct{}{}
			cleaned = append(cleaned, sym)
		}
		sort.Strings(cleaned)
		pairs[class] = append(pairs[class], cleaned...)
	}
	r.mu.Lock()
	r.snapshot = Snapshot{
		Version:  r.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Pairs:    pairs,
	}
	r.mu.Unlock()
	logger.Infof("symbols registry loaded %d classes from %s", len(pairs), filepath.Base(r.path))
	return nil
}

func (r *Registry) notifyListeners() {
	r.mu.RLock()
	snap := cloneSnapshot(r.snapshot)
	listeners := append([]ChangeListener(nil), r.listeners...)
	r.mu.RUnlock()
	for _, fn := range listeners {
		go func(cb ChangeListener) {
			defer safeRecover("symbols listener")
			cb(snap)
		}(fn)
	}
}

func cloneSnapshot(src Snapshot) Snapshot {
	dst := Snapshot{
		Version:  src.Version,
		LoadedAt: src.LoadedAt,
		Pairs:    make(map[journal.AssetClass][]string, len(src.Pairs)),
	}
	for class, pairs := range src.Pairs {
		out := make([]string, len(pairs))
		copy(out, pairs)
		dst.Pairs[class] = out
	}
	return dst
}

func safeRecover(tag string) {
	if r := recover(); r != nil {
		logger.Errorf("%s panic: %v", tag, r)
	}
}

func readSymbolsFile(path string) (FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read symbols config failed: %w", err)
	}
	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse symbols config failed: %w", err)
	}
	return cfg, nil
}
