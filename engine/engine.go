// Package engine 组装混合课程推荐的完整链路：
//
//	兴趣画像 -> 近邻召回 -> 发布/类别门控/已报名过滤 -> 内容相似度 -> 热度 -> 融合排序 -> TopN
//
// Engine 构建后只读，可被多个请求并发调用。
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/filter"
	"github.com/rushteam/courserec/interest"
	"github.com/rushteam/courserec/pipeline"
	"github.com/rushteam/courserec/rank"
	"github.com/rushteam/courserec/recall"
	"github.com/rushteam/courserec/rerank"
)

// Engine 是推荐引擎。
type Engine struct {
	catalog        *core.Catalog
	embeddings     *core.EmbeddingStore
	index          core.NeighborIndex
	popularity     core.PopularityTable
	popularityMode core.PopularityMode
	embedder       core.Embedder
	weights        core.FusionWeights
	interestConfig core.InterestConfig
	categories     core.CategoryTable
	maxCandidates  int
	defaultTopK    int
	excludeExpr    string
	activity       core.ActivityLoader
	concurrency    int
	logger         zerolog.Logger

	model   *interest.Model
	exclude *filter.ExprFilter
}

// New 创建推荐引擎。目录、向量库与索引必须提供，其余参数有默认值。
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		popularityMode: core.PopularityBlend,
		weights:        core.DefaultFusionWeights(),
		interestConfig: core.DefaultInterestConfig(),
		categories:     interest.DefaultCategories(),
		maxCandidates:  core.DefaultMaxCandidates,
		defaultTopK:    core.DefaultTopK,
		concurrency:    8,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	switch {
	case e.catalog == nil:
		return nil, core.Errorf(core.ModuleEngine, core.ErrorCodeInvalidInput, "catalog is required")
	case e.embeddings == nil:
		return nil, core.Errorf(core.ModuleEngine, core.ErrorCodeInvalidInput, "embedding store is required")
	case e.index == nil:
		return nil, core.Errorf(core.ModuleEngine, core.ErrorCodeInvalidInput, "neighbor index is required")
	}
	if err := e.weights.Validate(); err != nil {
		return nil, err
	}
	if !e.popularityMode.Valid() {
		return nil, core.Errorf(core.ModuleEngine, core.ErrorCodeInvalidInput, "unknown popularity mode %q", e.popularityMode)
	}
	if e.maxCandidates <= 0 {
		e.maxCandidates = core.DefaultMaxCandidates
	}
	if e.defaultTopK <= 0 {
		e.defaultTopK = core.DefaultTopK
	}
	if e.concurrency <= 0 {
		e.concurrency = 1
	}

	exclude, err := filter.NewExprFilter(e.excludeExpr)
	if err != nil {
		return nil, err
	}
	e.exclude = exclude
	e.model = interest.NewModel(e.interestConfig, e.categories, e.catalog, e.embeddings, e.logger)
	return e, nil
}

// Recommend 为一份行为日志生成推荐。topK <= 0 时使用默认值。
//
// 没有推荐时返回空 Items 与非空 Reason，而不是错误；索引状态损坏等故障才返回错误。
func (e *Engine) Recommend(ctx context.Context, activity core.ActivityLog, topK int) (*Result, error) {
	return e.recommend(ctx, "", activity, topK)
}

// RecommendLearner 通过 ActivityLoader 读取学习者行为日志后推荐。
func (e *Engine) RecommendLearner(ctx context.Context, learnerID string, topK int) (*Result, error) {
	if e.activity == nil {
		return nil, core.Errorf(core.ModuleEngine, core.ErrorCodeNotSupported, "no activity loader configured")
	}
	log, err := e.activity.LoadActivity(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	return e.recommend(ctx, learnerID, log, topK)
}

func (e *Engine) recommend(ctx context.Context, learnerID string, activity core.ActivityLog, topK int) (res *Result, err error) {
	start := time.Now()
	requestID := uuid.NewString()
	log := e.logger.With().Str("request_id", requestID).Logger()
	if learnerID != "" {
		log = log.With().Str("learner_id", learnerID).Logger()
	}
	if topK <= 0 {
		topK = e.defaultTopK
	}

	defer func() {
		reason := ""
		if res != nil {
			reason = res.Reason
			candidatesReturned.Observe(float64(len(res.Items)))
		}
		requestsTotal.WithLabelValues(outcomeLabel(reason, err)).Inc()
		requestDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("recommend failed")
			return
		}
		log.Debug().Int("items", len(res.Items)).Str("reason", res.Reason).Dur("elapsed", time.Since(start)).Msg("recommend done")
	}()

	profile, err := e.model.Build(ctx, activity)
	if err != nil {
		return nil, err
	}
	if profile.Skipped > 0 {
		skippedReferences.WithLabelValues("interest").Add(float64(profile.Skipped))
	}

	res = &Result{RequestID: requestID, Profile: profile}
	if !profile.Personalizable() {
		res.Reason = core.ReasonNoInterestSignal
		return res, nil
	}

	rctx := core.NewRecommendContext(requestID, learnerID, activity, topK)
	rctx.Profile = profile

	p := &pipeline.Pipeline{Nodes: e.nodes(log), Logger: log}
	out, err := p.Run(ctx, rctx, nil)
	if err != nil {
		var empty *pipeline.EmptyError
		if !errors.As(err, &empty) {
			return nil, err
		}
		res.Reason = empty.Reason
		return res, nil
	}
	res.Items = toRecommendations(out)
	return res, nil
}

// nodes 按请求构建 Node 链，Node 本身无状态，只携带请求级日志。
func (e *Engine) nodes(log zerolog.Logger) []pipeline.Node {
	nodes := []pipeline.Node{
		&recall.ANN{
			Index:         e.index,
			Catalog:       e.catalog,
			MaxCandidates: e.maxCandidates,
			Logger:        log,
			OnSkip:        skipCounter("recall"),
		},
	}
	nodes = append(nodes,
		&filter.FilterNode{
			NodeName: "filter.published",
			Filters:  []filter.Filter{&filter.PublishedFilter{}},
			Reason:   core.ReasonFilteredEmpty,
			Logger:   log,
		},
		&filter.FilterNode{
			NodeName: "filter.category_gate",
			Filters:  []filter.Filter{&filter.CategoryGate{Categories: e.categories}},
			Reason:   core.ReasonGatedEmpty,
			Logger:   log,
		},
		&filter.FilterNode{
			NodeName: "filter.enrolled",
			Filters:  []filter.Filter{&filter.EnrolledFilter{}},
			Reason:   core.ReasonFilteredEmpty,
			Logger:   log,
		},
	)
	if e.exclude != nil {
		nodes = append(nodes, &filter.FilterNode{
			NodeName: "filter.expr",
			Filters:  []filter.Filter{e.exclude},
			Reason:   core.ReasonFilteredEmpty,
			Logger:   log,
		})
	}
	return append(nodes,
		&rank.ContentSimilarityNode{
			Index:         e.index,
			Catalog:       e.catalog,
			MaxCandidates: e.maxCandidates,
			Embedder:      e.embedder,
			Embeddings:    e.embeddings,
			Logger:        log,
			OnSkip:        skipCounter("content"),
		},
		&rank.PopularityNode{Table: e.popularity, Mode: e.popularityMode},
		&rank.FusionNode{Weights: e.weights, Logger: log},
		&rerank.TopNNode{},
	)
}

func skipCounter(stage string) func(int64) {
	c := skippedReferences.WithLabelValues(stage)
	return func(int64) { c.Inc() }
}
