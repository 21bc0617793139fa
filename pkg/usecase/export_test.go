package usecase

import (
	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/model/config"
	"github.com/gigbook/herald/pkg/domain/types"
)

// RankNotifications is exported for testing
var RankNotifications = rankNotifications

// EvaluateRule runs a single registry rule by key against s
func EvaluateRule(key types.RuleKey, s *model.Snapshots, cfg *config.EngineConfig) []Match {
	s.Index()
	for _, r := range DefaultRules() {
		if r.Key == key {
			matches, err := runRule(r, s, cfg)
			if err != nil {
				panic(err)
			}
			return matches
		}
	}
	panic("unknown rule " + key)
}

// CatalogKeys lists every rule key with built-in wording
func CatalogKeys() []types.RuleKey {
	keys := make([]types.RuleKey, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	return keys
}
