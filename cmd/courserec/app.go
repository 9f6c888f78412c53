package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/rushteam/courserec/config"
	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/embed"
	"github.com/rushteam/courserec/engine"
	"github.com/rushteam/courserec/index"
	"github.com/rushteam/courserec/loader"
	"github.com/rushteam/courserec/store"
)

// app 持有一次命令执行期间打开的数据源与推荐引擎。
type app struct {
	engine  *engine.Engine
	bundle  *loader.Bundle
	closers []io.Closer
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	return errors.Join(errs...)
}

// dataSource 同时提供目录、向量、热度与行为日志，JSONFiles 与 SQLite 都满足。
type dataSource interface {
	core.CatalogLoader
	core.EmbeddingLoader
	core.PopularityLoader
	core.ActivityLoader
}

// newApp 按配置选择数据源、加载数据并构建推荐引擎。
//
// 行为日志与热度的来源优先级：Redis > 主数据源；热度另可由 Feast 覆盖。
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	var src dataSource
	if cfg.Data.SQLite != "" {
		db, err := loader.OpenSQLite(cfg.Data.SQLite)
		if err != nil {
			return nil, err
		}
		db.PublishedOnly = cfg.Data.PublishedOnly
		a.closers = append(a.closers, db)
		src = db
		log.Info().Str("sqlite", cfg.Data.SQLite).Msg("using sqlite data source")
	} else {
		src = &loader.JSONFiles{Dir: cfg.Data.Dir, PublishedOnly: cfg.Data.PublishedOnly}
		log.Info().Str("dir", cfg.Data.Dir).Msg("using json data source")
	}

	var (
		activity   core.ActivityLoader   = src
		popularity core.PopularityLoader = src
	)
	if cfg.Redis.Enabled {
		rs, err := store.NewRedisStore(ctx, cfg.Redis.Conn)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rs)
		sl := &loader.StoreLoader{
			Store:             rs,
			ActivityKeyPrefix: cfg.Redis.ActivityKeyPrefix,
			PopularityKey:     cfg.Redis.PopularityKey,
		}
		activity, popularity = sl, sl
		log.Info().Str("addr", cfg.Redis.Conn.Addr).Msg("using redis for activity and popularity")
	}
	if cfg.Feast.Enabled {
		// Feast 需要课程 ID 列表，等目录加载完成后再读热度
		popularity = nil
	}

	bundle, err := loader.LoadBundle(ctx, src, src, popularity)
	if err != nil {
		return nil, err
	}
	if cfg.Feast.Enabled {
		fp, err := loader.NewFeastPopularity(cfg.Feast.Serving, bundle.Catalog.IDs)
		if err != nil {
			return nil, err
		}
		if bundle.Popularity, err = fp.LoadPopularity(ctx); err != nil {
			return nil, fmt.Errorf("load popularity from feast: %w", err)
		}
	}
	a.bundle = bundle
	log.Info().
		Int("courses", bundle.Catalog.Len()).
		Int("embeddings", bundle.Embeddings.Len()).
		Int("popularity", len(bundle.Popularity)).
		Msg("data loaded")

	idx, err := index.Build(bundle.Embeddings, index.Metric(cfg.Index.Metric))
	if err != nil {
		return nil, err
	}
	embedder, err := newEmbedder(cfg, bundle)
	if err != nil {
		return nil, err
	}
	categories, err := cfg.CategoryTable()
	if err != nil {
		return nil, err
	}

	a.engine, err = engine.New(
		engine.WithCatalog(bundle.Catalog),
		engine.WithEmbeddings(bundle.Embeddings),
		engine.WithIndex(idx),
		engine.WithPopularity(bundle.Popularity),
		engine.WithPopularityMode(core.PopularityMode(cfg.Recommend.PopularityMode)),
		engine.WithEmbedder(embedder),
		engine.WithFusionWeights(cfg.Recommend.Weights),
		engine.WithInterestConfig(cfg.InterestConfig()),
		engine.WithCategories(categories),
		engine.WithMaxCandidates(cfg.Recommend.MaxCandidates),
		engine.WithDefaultTopK(cfg.Recommend.DefaultTopK),
		engine.WithExcludeExpr(cfg.Recommend.ExcludeExpr),
		engine.WithActivityLoader(activity),
		engine.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// newEmbedder 启用 OpenAI 时在线向量化并按文本缓存，否则查预计算向量。
func newEmbedder(cfg *config.Config, bundle *loader.Bundle) (core.Embedder, error) {
	if !cfg.OpenAI.Enabled {
		return embed.NewLookup(bundle.Catalog, bundle.Embeddings), nil
	}
	client, err := embed.NewOpenAI(cfg.OpenAI.Client)
	if err != nil {
		return nil, err
	}
	return embed.NewCached(client), nil
}
