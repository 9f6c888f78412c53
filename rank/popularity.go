package rank

import (
	"context"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/pipeline"
	"github.com/rushteam/courserec/pkg/utils"
)

// PopularityNode 写入原始热度分：blend 模式为 0.7·报名数 + 0.3·平均进度，
// simple 模式只看报名数。缺失统计按 0 处理。
type PopularityNode struct {
	Table core.PopularityTable
	Mode  core.PopularityMode
}

func (n *PopularityNode) Name() string        { return "rank.popularity" }
func (n *PopularityNode) Kind() pipeline.Kind { return pipeline.KindScore }

func (n *PopularityNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	mode := n.Mode
	if mode == "" {
		mode = core.PopularityBlend
	}
	for _, c := range candidates {
		c.Popularity = mode.Score(n.Table.Get(c.ID()))
		c.PutLabel("popularity_mode", utils.Label{Value: string(mode), Source: "rank"})
	}
	return candidates, nil
}
