package filter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/pipeline"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该候选就会被过滤掉。
//
// Reason 非空时，过滤后候选为空会让 Pipeline 以该原因终止（例如 "gated empty"）。
type FilterNode struct {
	Filters  []Filter
	NodeName string
	Reason   string
	Logger   zerolog.Logger
}

func (n *FilterNode) Name() string {
	if n.NodeName != "" {
		return n.NodeName
	}
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) EmptyReason() string { return n.Reason }

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Filters) == 0 || len(candidates) == 0 {
		return candidates, nil
	}

	out, filtered := Apply(ctx, rctx, candidates, n.Filters, func(f Filter, c *core.Candidate, err error) {
		// 过滤器错误时记录但不中断流程
		n.Logger.Warn().Err(err).Str("filter", f.Name()).Int64("course_id", c.ID()).Msg("filter error, candidate kept")
	})
	if filtered > 0 {
		n.Logger.Debug().Str("node", n.Name()).Int("filtered", filtered).Msg("candidates filtered")
	}
	return out, nil
}
