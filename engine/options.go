package engine

import (
	"github.com/rs/zerolog"

	"github.com/rushteam/courserec/core"
)

// Option 配置 Engine。
type Option func(*Engine)

// WithCatalog 设置课程目录（必需）。
func WithCatalog(c *core.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithEmbeddings 设置课程向量库（必需）。
func WithEmbeddings(s *core.EmbeddingStore) Option {
	return func(e *Engine) { e.embeddings = s }
}

// WithIndex 设置近邻索引（必需），其位置表须与向量库一致。
func WithIndex(idx core.NeighborIndex) Option {
	return func(e *Engine) { e.index = idx }
}

// WithPopularity 设置课程热度表，缺省为空表（热度信号全为 0）。
func WithPopularity(t core.PopularityTable) Option {
	return func(e *Engine) { e.popularity = t }
}

// WithPopularityMode 设置热度计算方式。
func WithPopularityMode(m core.PopularityMode) Option {
	return func(e *Engine) { e.popularityMode = m }
}

// WithEmbedder 设置内容相似度锚点的向量化方式，缺省直接使用向量库。
func WithEmbedder(emb core.Embedder) Option {
	return func(e *Engine) { e.embedder = emb }
}

// WithFusionWeights 设置融合权重。
func WithFusionWeights(w core.FusionWeights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithInterestConfig 设置兴趣模型配置。
func WithInterestConfig(cfg core.InterestConfig) Option {
	return func(e *Engine) { e.interestConfig = cfg }
}

// WithCategories 设置类别关键词表。
func WithCategories(t core.CategoryTable) Option {
	return func(e *Engine) { e.categories = t }
}

func WithMaxCandidates(n int) Option {
	return func(e *Engine) { e.maxCandidates = n }
}

func WithDefaultTopK(n int) Option {
	return func(e *Engine) { e.defaultTopK = n }
}

// WithExcludeExpr 设置 CEL 排除表达式，为 true 的候选被移除。
func WithExcludeExpr(expr string) Option {
	return func(e *Engine) { e.excludeExpr = expr }
}

// WithActivityLoader 设置 RecommendLearner 使用的行为日志来源。
func WithActivityLoader(l core.ActivityLoader) Option {
	return func(e *Engine) { e.activity = l }
}

// WithConcurrency 设置 RecommendBatch 的并发上限。
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}
