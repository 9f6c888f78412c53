package filter

import (
	"context"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/pkg/dsl"
)

// ExprFilter 用 CEL 表达式排除候选，表达式为 true 时过滤。
//
// 示例：`course.title.contains("Advanced") && learner.seen_count < 3`
type ExprFilter struct {
	expr *dsl.Expr
}

// NewExprFilter 编译表达式。空表达式返回 nil，调用方可以直接跳过。
func NewExprFilter(expr string) (*ExprFilter, error) {
	compiled, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	if compiled == nil {
		return nil, nil
	}
	return &ExprFilter{expr: compiled}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

// Expr 返回原始表达式。
func (f *ExprFilter) Expr() string { return f.expr.String() }

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	return f.expr.Evaluate(c, rctx)
}
