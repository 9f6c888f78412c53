package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/courserec/core"
)

// EmptyError 表示某个 Node 把候选集清空，推荐提前结束。
// 这不是故障，调用方应把 Reason 作为“无推荐”的原因返回。
type EmptyError struct {
	Node   string
	Reason string
}

func (e *EmptyError) Error() string {
	return fmt.Sprintf("pipeline: node %s produced no candidates: %s", e.Node, e.Reason)
}

// Pipeline 把推荐逻辑拆成可组合的 Node 链。
type Pipeline struct {
	Nodes  []Node
	Logger zerolog.Logger
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := candidates
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in := len(cur)
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", node.Kind(), node.Name(), err)
		}
		p.Logger.Debug().
			Str("node", node.Name()).
			Str("kind", string(node.Kind())).
			Int("in", in).
			Int("out", len(next)).
			Msg("node processed")
		if len(next) == 0 {
			if r, ok := node.(EmptyReasoner); ok && r.EmptyReason() != "" {
				return nil, &EmptyError{Node: node.Name(), Reason: r.EmptyReason()}
			}
		}
		cur = next
	}
	return cur, nil
}
