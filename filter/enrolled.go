package filter

import (
	"context"

	"github.com/rushteam/courserec/core"
)

// EnrolledFilter 过滤掉学习者已报名的课程。在候选生成阶段使用。
type EnrolledFilter struct{}

func (f *EnrolledFilter) Name() string { return "filter.enrolled" }

func (f *EnrolledFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if rctx == nil {
		return false, nil
	}
	return rctx.HasEnrolled(c.ID()), nil
}
