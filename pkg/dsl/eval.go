package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/courserec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("course", cel.DynType),
		cel.Variable("candidate", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("learner", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Expr 是编译后的候选规则表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次，可被多个请求并发求值。
//
// 可用变量：
//   - course：id / title / description / published
//   - candidate：user_similarity / content_similarity / popularity / final_score / order
//   - label：候选 Label 的 value，例如 label.recall_source
//   - learner：id / primary_category / seen_count
//
// 示例：
//   - `course.title.contains("Beginner")` → 标题包含 Beginner
//   - `candidate.user_similarity < 0.2` → 用户相似度过低
//   - `learner.primary_category == "data science" && candidate.popularity == 0.0`
type Expr struct {
	source string
	prg    cel.Program
}

// Compile 编译表达式。空表达式返回 nil，表示不做任何判断。
func Compile(expr string) (*Expr, error) {
	if expr == "" {
		return nil, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, core.Errorf(core.ModuleRank, core.ErrorCodeInvalidInput, "compile %q: %v", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, core.Errorf(core.ModuleRank, core.ErrorCodeInvalidInput, "program %q: %v", expr, err)
	}
	return &Expr{source: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	return e.source
}

// Evaluate 对单个候选求值。表达式必须返回布尔值。
//
// 注意：CEL 访问不存在的 map key 会报错，检查存在性请使用 has(label.key)。
func (e *Expr) Evaluate(c *core.Candidate, rctx *core.RecommendContext) (bool, error) {
	if e == nil {
		return false, nil
	}
	out, _, err := e.prg.Eval(buildInput(c, rctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", e.source, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return boolean, got %T", e.source, out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(c *core.Candidate, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(c.Labels))
	for k, v := range c.Labels {
		labels[k] = v.Value
	}

	course := map[string]any{
		"id":          c.Course.ID,
		"title":       c.Course.Title,
		"description": c.Course.Description,
		"published":   c.Course.Published,
	}

	candidate := map[string]any{
		"user_similarity":    c.UserSimilarity,
		"content_similarity": c.ContentSimilarity,
		"popularity":         c.Popularity,
		"final_score":        c.FinalScore,
		"order":              int64(c.Order),
	}

	learner := map[string]any{
		"id":               "",
		"primary_category": "",
		"seen_count":       int64(0),
	}
	if rctx != nil {
		learner["id"] = rctx.LearnerID
		learner["seen_count"] = int64(len(rctx.Activity.Seen()))
		if primary, ok := rctx.PrimaryCategory(); ok {
			learner["primary_category"] = primary
		}
	}

	return map[string]any{
		"course":    course,
		"candidate": candidate,
		"label":     labels,
		"learner":   learner,
	}
}
