package pipeline

import (
	"context"

	"github.com/rushteam/courserec/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall Kind = "recall" // 召回阶段：近邻检索生成候选集
	KindFilter Kind = "filter" // 过滤阶段：类别门控、已报名、已看等硬约束
	KindScore  Kind = "score"  // 打分阶段：内容相似度、热度等信号
	KindRank   Kind = "rank"   // 排序阶段：归一化融合并排序
	KindReRank Kind = "rerank" // 重排阶段：截断
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 candidates -> 输出 candidates”的形态。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		candidates []*core.Candidate,
	) ([]*core.Candidate, error)
}

// EmptyReasoner 由“输出为空即终止”的 Node 实现。
// Node 输出 0 个候选且原因非空时，Pipeline 立即停止并返回 *EmptyError，携带该原因。
type EmptyReasoner interface {
	EmptyReason() string
}
