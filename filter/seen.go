package filter

import (
	"context"

	"github.com/rushteam/courserec/core"
)

// SeenFilter 过滤掉行为日志中出现过的课程（浏览或报名）。
// 在归一化之后、加权融合之前使用，因此被过滤的课程仍参与 min/max 计算。
type SeenFilter struct{}

func (f *SeenFilter) Name() string { return "filter.seen" }

func (f *SeenFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if rctx == nil {
		return false, nil
	}
	return rctx.HasSeen(c.ID()), nil
}
