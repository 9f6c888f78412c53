package filter

import (
	"context"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/interest"
)

// CategoryGate 是类别硬门控：存在主类别时，课程文本必须命中该类别至少一个关键词。
// 没有主类别时不做门控。
type CategoryGate struct {
	Categories core.CategoryTable
}

func (f *CategoryGate) Name() string { return "filter.category_gate" }

func (f *CategoryGate) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	primary, ok := rctx.PrimaryCategory()
	if !ok {
		return false, nil
	}
	keywords, ok := f.Categories.Keywords(primary)
	if !ok {
		return false, core.Errorf(core.ModuleRecall, core.ErrorCodeInvalidInput, "primary category %q not in category table", primary)
	}
	return !interest.Matches(c.Course.Text(), keywords), nil
}
