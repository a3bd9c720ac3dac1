// Package news resolves a user's preference-filtered feed through the cache
// and the upstream search API.
package news

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/newsbrief/newsbrief/internal/cache"
	"github.com/newsbrief/newsbrief/internal/model"
	"github.com/newsbrief/newsbrief/internal/prefs"
	"github.com/newsbrief/newsbrief/internal/store"
)

// fallbackQuery is used when a user has no preferences saved.
const fallbackQuery = "news"

// Source records where a feed came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceUpstream Source = "upstream"
)

// Result is a resolved feed. Degraded marks an upstream failure that was
// swallowed into an empty list; the HTTP response shape is identical either
// way, but callers and tests can tell the difference.
type Result struct {
	Articles []model.Article
	Source   Source
	Degraded bool
}

// Searcher is the external news-search API.
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.Article, error)
}

type Service struct {
	store  store.UserStore
	cache  *cache.Cache
	client Searcher
	log    *zap.Logger
}

func NewService(st store.UserStore, c *cache.Cache, client Searcher, log *zap.Logger) *Service {
	return &Service{store: st, cache: c, client: client, log: log}
}

// Fetch resolves the feed for an authenticated identity.
//
// A store miss surfaces as store.ErrNotFound and any other store fault is
// returned as-is; both are the caller's problem to map. Upstream faults never
// surface: the result degrades to an empty list and nothing is cached.
func (s *Service) Fetch(ctx context.Context, email string) (Result, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return Result{}, err
	}

	preferences := prefs.Normalize(user.Preferences)
	key := cache.Key(user.ID, preferences)

	if articles, ok := s.cache.Get(key); ok {
		s.log.Debug("news cache hit", zap.String("key", key))
		return Result{Articles: articles, Source: SourceCache}, nil
	}
	s.log.Debug("news cache miss", zap.String("key", key))

	query := fallbackQuery
	if len(preferences) > 0 {
		query = strings.Join(preferences, " OR ")
	}

	articles, err := s.client.Search(ctx, query)
	if err != nil {
		// Fail open: the endpoint stays available when the upstream is not.
		s.log.Warn("news upstream failed, returning empty feed",
			zap.String("query", query),
			zap.Error(err),
		)
		return Result{Articles: []model.Article{}, Source: SourceUpstream, Degraded: true}, nil
	}

	s.cache.Put(key, articles)
	return Result{Articles: articles, Source: SourceUpstream}, nil
}
