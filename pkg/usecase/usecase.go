package usecase

import (
	"github.com/gigbook/herald/pkg/domain/interfaces"
	"github.com/gigbook/herald/pkg/domain/model/config"
	"github.com/gigbook/herald/pkg/utils/clock"
)

type UseCases struct {
	repo         interfaces.Repository
	engineConfig *config.EngineConfig
	clock        clock.Clock
	selector     VariantSelector
	rules        []Rule
	Notification *NotificationUseCase
}

type Option func(*UseCases)

func WithEngineConfig(cfg *config.EngineConfig) Option {
	return func(uc *UseCases) {
		uc.engineConfig = cfg
	}
}

func WithClock(c clock.Clock) Option {
	return func(uc *UseCases) {
		uc.clock = c
	}
}

// WithVariantSelector pins the phrasing variant choice, typically to FirstVariant in tests
func WithVariantSelector(selector VariantSelector) Option {
	return func(uc *UseCases) {
		uc.selector = selector
	}
}

// WithRules replaces the rule registry
func WithRules(rules []Rule) Option {
	return func(uc *UseCases) {
		uc.rules = rules
	}
}

func New(repo interfaces.Repository, opts ...Option) (*UseCases, error) {
	uc := &UseCases{
		repo:         repo,
		engineConfig: config.DefaultEngineConfig(),
		clock:        clock.Real(),
		selector:     RandomVariant,
		rules:        DefaultRules(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	renderer, err := NewRenderer(uc.engineConfig.Templates, uc.selector)
	if err != nil {
		return nil, err
	}

	uc.Notification = NewNotificationUseCase(repo, uc.engineConfig, uc.clock, uc.rules, renderer)

	return uc, nil
}
