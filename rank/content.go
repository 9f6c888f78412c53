package rank

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/pipeline"
	"github.com/rushteam/courserec/pkg/conv"
	"github.com/rushteam/courserec/pkg/utils"
	"github.com/rushteam/courserec/recall"
)

// ContentSimilarityNode 计算内容相似度信号。
//
// 取行为日志中最近一次强意图事件（报名或进度更新）的课程，对其文本向量化后
// 再做一次近邻检索，候选的 ContentSimilarity = 1/(1+distance)，不在结果中的为 0。
// 没有强意图事件时整个信号跳过（全部为 0）。
type ContentSimilarityNode struct {
	Index         core.NeighborIndex
	Catalog       *core.Catalog
	MaxCandidates int

	// Embedder 把课程文本转为向量；为 nil 时直接使用 Embeddings 中该课程的向量
	Embedder   core.Embedder
	Embeddings *core.EmbeddingStore

	Logger zerolog.Logger
	OnSkip func(courseID int64)
}

func (n *ContentSimilarityNode) Name() string        { return "rank.content_similarity" }
func (n *ContentSimilarityNode) Kind() pipeline.Kind { return pipeline.KindScore }

func (n *ContentSimilarityNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 || rctx == nil {
		return candidates, nil
	}
	anchor, ok := rctx.Activity.LastStrongIntent()
	if !ok {
		return candidates, nil
	}

	query, ok, err := n.anchorVector(ctx, anchor.CourseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		if n.OnSkip != nil {
			n.OnSkip(anchor.CourseID)
		}
		return candidates, nil
	}

	hits, err := recall.Search(ctx, n.Index, query, n.MaxCandidates)
	if err != nil {
		return nil, err
	}
	scores := recall.SimilarityMap(hits)

	anchorLabel := utils.Label{Value: "course:" + conv.FormatID(anchor.CourseID), Source: "rank"}
	for _, c := range candidates {
		c.ContentSimilarity = scores[c.ID()]
		c.PutLabel("content_anchor", anchorLabel)
	}
	return candidates, nil
}

// anchorVector 返回锚点课程的查询向量；引用缺失时返回 ok=false。
func (n *ContentSimilarityNode) anchorVector(ctx context.Context, courseID int64) ([]float64, bool, error) {
	course, err := n.Catalog.Lookup(courseID)
	if err != nil {
		n.Logger.Warn().Int64("course_id", courseID).Msg("content anchor not in catalog, signal skipped")
		return nil, false, nil
	}
	if n.Embedder != nil {
		vec, err := n.Embedder.Embed(ctx, course.Text())
		if err != nil {
			return nil, false, fmt.Errorf("embed course %d: %w", courseID, err)
		}
		return vec, true, nil
	}
	vec, ok := n.Embeddings.Get(courseID)
	if !ok {
		n.Logger.Warn().Int64("course_id", courseID).Msg("content anchor has no embedding, signal skipped")
		return nil, false, nil
	}
	return vec, true, nil
}
