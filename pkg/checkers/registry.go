package checkers

import (
	"fmt"
	"sort"
)

// factory builds a checker from a validated config.
type factory func(Config) (Checker, error)

var factories = map[string]factory{
	"openai":    func(cfg Config) (Checker, error) { return NewOpenAI(cfg), nil },
	"anthropic": func(cfg Config) (Checker, error) { return NewAnthropic(cfg), nil },
	"deepseek":  func(cfg Config) (Checker, error) { return NewDeepSeek(cfg), nil },
	"minimax":   func(cfg Config) (Checker, error) { return NewMiniMax(cfg), nil },
	"github":    func(cfg Config) (Checker, error) { return NewGitHub(cfg), nil },
	"custom":    func(cfg Config) (Checker, error) { return NewCustom(cfg) },
}

// Providers returns the supported provider tags in sorted order.
func Providers() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the checker for a provider entry. Defaults are applied and
// the config validated, so an unknown provider or a missing credential
// is reported here rather than during monitoring.
func New(cfg Config) (Checker, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	build, ok := factories[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("checker %q: unsupported provider %q (supported: %v)", cfg.Name, cfg.Provider, Providers())
	}
	return build(cfg)
}
