package embed

import (
	"context"
	"sync"

	"github.com/rushteam/courserec/core"
)

// Cached 按文本记忆化任意 Embedder：同一文本只调用一次下游，
// 之后总是返回同一个向量，保证重复请求的内容相似度可复现。
type Cached struct {
	inner core.Embedder

	mu   sync.RWMutex
	memo map[string][]float64
}

// NewCached 包装 Embedder。
func NewCached(inner core.Embedder) *Cached {
	return &Cached{inner: inner, memo: make(map[string][]float64)}
}

// Embed 实现 core.Embedder。返回值与缓存共享，调用方不得修改。
func (c *Cached) Embed(ctx context.Context, text string) ([]float64, error) {
	c.mu.RLock()
	vec, ok := c.memo[text]
	c.mu.RUnlock()
	if ok {
		return vec, nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.memo[text]; ok {
		return existing, nil
	}
	c.memo[text] = vec
	return vec, nil
}

// Len 返回已缓存的文本数。
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memo)
}

var _ core.Embedder = (*Cached)(nil)
