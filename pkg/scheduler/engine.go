/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/apis/v1alpha1"
	"github.com/PedroLages/Lord-of-the-Bins-sub003/pkg/metrics"
)

// Engine wraps the pure Schedule function with the concerns a service
// embeds it with: structured logging, metrics, and a TTL result cache
// for identical seeded requests. The pure function stays logger-free;
// callers that want neither logging nor caching call Schedule directly.
type Engine struct {
	logger  *zap.Logger
	results *cache.Cache
	// now is swappable for tests.
	now func() time.Time
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	Logger   *zap.Logger
	CacheTTL time.Duration
}

func NewEngine(opts EngineOptions) *Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	return &Engine{
		logger:  opts.Logger,
		results: cache.New(opts.CacheTTL, opts.CacheTTL/2),
		now:     time.Now,
	}
}

// Schedule runs one scheduling call. Requests with an explicit seed are
// answered from the cache when an identical request was served recently;
// unseeded requests get a fresh time-derived seed each call and bypass
// the cache.
func (e *Engine) Schedule(ctx context.Context, req *Request) (*Result, error) {
	seeded := req.Rules.SchedulingSeed != nil
	if !seeded {
		withSeed := *req
		withSeed.Rules.SchedulingSeed = lo.ToPtr(e.now().UnixNano())
		req = &withSeed
	}

	var key string
	if seeded {
		hash, err := hashstructure.Hash(req, hashstructure.FormatV2, nil)
		if err == nil {
			key = fmt.Sprintf("%x", hash)
			if cached, ok := e.results.Get(key); ok {
				metrics.CacheHits.Inc()
				e.logger.Debug("schedule served from cache", zap.String("key", key))
				return cached.(*Result), nil
			}
		}
	}

	start := e.now()
	result, err := Schedule(ctx, req)
	if err != nil {
		e.logger.Error("schedule request rejected", zap.Error(err))
		return nil, err
	}
	algorithm := string(req.Rules.Default().Pipeline())
	metrics.ScheduleDuration.WithLabelValues(algorithm).Observe(e.now().Sub(start).Seconds())
	for _, w := range result.Warnings {
		metrics.WarningsEmitted.WithLabelValues(string(w.Kind)).Inc()
	}

	e.logger.Info("schedule computed",
		zap.String("algorithm", algorithm),
		zap.Int("assignments", len(result.Assignments)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("elapsed", e.now().Sub(start)),
	)
	if kinds := warningKinds(result.Warnings); len(kinds) > 0 {
		e.logger.Warn("schedule has warnings", zap.Strings("kinds", kinds))
	}

	if key != "" {
		e.results.SetDefault(key, result)
	}
	return result, nil
}

func warningKinds(warnings []v1alpha1.Warning) []string {
	return lo.Uniq(lo.Map(warnings, func(w v1alpha1.Warning, _ int) string { return string(w.Kind) }))
}
