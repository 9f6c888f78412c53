package rank

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/filter"
	"github.com/rushteam/courserec/pipeline"
	"github.com/rushteam/courserec/pkg/utils"
)

// FusionNode 融合三路信号并排序：
//
//  1. 在整个候选集上对每路信号做 min-max 归一化（零方差时全部为 0）
//  2. 移除已看课程（浏览或报名）
//  3. final = Σ weight·normalized
//  4. 按 final 降序稳定排序，平票保持近邻检索顺序
//
// 已看过滤在归一化之后，因此被移除的候选仍影响 min/max。
type FusionNode struct {
	Weights core.FusionWeights
	// Seen 为 nil 时使用 filter.SeenFilter
	Seen   filter.Filter
	Logger zerolog.Logger
}

func (n *FusionNode) Name() string        { return "rank.fusion" }
func (n *FusionNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *FusionNode) EmptyReason() string { return core.ReasonFilteredEmpty }

func (n *FusionNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	user := make([]float64, len(candidates))
	content := make([]float64, len(candidates))
	pop := make([]float64, len(candidates))
	for i, c := range candidates {
		user[i], content[i], pop[i] = c.UserSimilarity, c.ContentSimilarity, c.Popularity
	}
	user, content, pop = MinMaxNormalize(user), MinMaxNormalize(content), MinMaxNormalize(pop)
	for i, c := range candidates {
		c.UserSimilarity, c.ContentSimilarity, c.Popularity = user[i], content[i], pop[i]
	}

	seen := n.Seen
	if seen == nil {
		seen = &filter.SeenFilter{}
	}
	out, filtered := filter.Apply(ctx, rctx, candidates, []filter.Filter{seen}, func(f filter.Filter, c *core.Candidate, err error) {
		n.Logger.Warn().Err(err).Str("filter", f.Name()).Int64("course_id", c.ID()).Msg("filter error, candidate kept")
	})
	if filtered > 0 {
		n.Logger.Debug().Int("filtered", filtered).Msg("seen candidates removed")
	}

	w := n.Weights
	for _, c := range out {
		c.FinalScore = w.UserSimilarity*c.UserSimilarity +
			w.ContentSimilarity*c.ContentSimilarity +
			w.Popularity*c.Popularity
		c.PutLabel("final_score", utils.NumberLabel(c.FinalScore, "rank"))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FinalScore != out[j].FinalScore {
			return out[i].FinalScore > out[j].FinalScore
		}
		return out[i].Order < out[j].Order
	})
	return out, nil
}
