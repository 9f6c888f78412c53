package core

import "context"

// Embedder 是文本向量化的领域接口（外部协作者）。
//
// 要求：相同文本必须得到相同向量，否则内容相似度在重复请求间不可复现。
//
// 实现：
//   - embed.OpenAI：调用 OpenAI Embeddings API
//   - embed.Lookup：按课程文本查预计算向量（离线、确定性）
//   - embed.Cached：任意 Embedder 的按文本记忆化包装
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// EmbedFunc 让普通函数满足 Embedder。
type EmbedFunc func(ctx context.Context, text string) ([]float64, error)

func (f EmbedFunc) Embed(ctx context.Context, text string) ([]float64, error) {
	return f(ctx, text)
}
