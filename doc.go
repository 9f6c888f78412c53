// Package courserec 是一个混合课程推荐引擎。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Score → Rank → ReRank）
// - Labels-first: 每个候选携带可解释的 labels，记录召回来源、内容锚点与融合分
// - 三路信号：用户向量相似度、最近强意图课程的内容相似度、课程热度，min-max 归一化后加权融合
//
// 快速开始：
//
//	eng, err := courserec.New(
//	    engine.WithCatalog(catalog),
//	    engine.WithEmbeddings(embeddings),
//	    engine.WithIndex(idx),
//	)
//	res, err := eng.Recommend(ctx, activity, 5)
package courserec

import (
	"github.com/rushteam/courserec/engine"
	"github.com/rushteam/courserec/pipeline"
)

// 轻量 facade：便于用户直接 import "courserec" 使用核心抽象。
type (
	Engine         = engine.Engine
	Option         = engine.Option
	Result         = engine.Result
	Recommendation = engine.Recommendation
	Pipeline       = pipeline.Pipeline
	Node           = pipeline.Node
	Kind           = pipeline.Kind
)

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindScore  = pipeline.KindScore
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)

// New 等价于 engine.New。
func New(opts ...Option) (*Engine, error) { return engine.New(opts...) }
