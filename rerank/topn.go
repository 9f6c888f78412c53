package rerank

import (
	"context"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个候选。
// 通常在融合排序（rank.FusionNode）之后使用。
//
// 截断数量的优先级：N > rctx.TopK > core.DefaultTopK。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.FusionNode{...},   // 融合排序
//	        &rerank.TopNNode{},      // 按请求的 TopK 截断
//	    },
//	}
type TopNNode struct {
	// N 要保留的候选数量；N <= 0 时使用请求的 TopK
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.TopK
	}
	if limit <= 0 {
		limit = core.DefaultTopK
	}

	if len(candidates) <= limit {
		return candidates, nil
	}
	return candidates[:limit], nil
}
