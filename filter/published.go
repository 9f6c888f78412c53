package filter

import (
	"context"

	"github.com/rushteam/courserec/core"
)

// PublishedFilter 过滤掉未发布的课程。
type PublishedFilter struct{}

func (f *PublishedFilter) Name() string { return "filter.published" }

func (f *PublishedFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	return !c.Course.Published, nil
}
