package filter

import (
	"context"

	"github.com/rushteam/courserec/core"
)

// Filter 是过滤器的抽象接口，用于判断一个候选是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断候选是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, c *core.Candidate) (bool, error)
}

// Apply 依次用过滤器检查候选，返回保留的候选与被过滤的数量。
// 单个过滤器出错时记录到 onError（可为 nil）并视为保留。
func Apply(ctx context.Context, rctx *core.RecommendContext, candidates []*core.Candidate, filters []Filter, onError func(Filter, *core.Candidate, error)) ([]*core.Candidate, int) {
	out := make([]*core.Candidate, 0, len(candidates))
	filtered := 0
	for _, c := range candidates {
		if c == nil {
			continue
		}
		drop := false
		for _, f := range filters {
			ok, err := f.ShouldFilter(ctx, rctx, c)
			if err != nil {
				if onError != nil {
					onError(f, c, err)
				}
				continue
			}
			if ok {
				drop = true
				break
			}
		}
		if drop {
			filtered++
			continue
		}
		out = append(out, c)
	}
	return out, filtered
}
