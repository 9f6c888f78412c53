package embed

import (
	"context"

	"github.com/rushteam/courserec/core"
)

// Lookup 用预计算的课程向量回答 Embed：课程文本 -> 该课程在向量库中的向量。
// 离线、确定性，适合没有在线向量服务的场景。
type Lookup struct {
	byText map[string][]float64
}

// NewLookup 根据目录与向量库建立文本索引。没有向量的课程不会被收录。
func NewLookup(catalog *core.Catalog, embeddings *core.EmbeddingStore) *Lookup {
	l := &Lookup{byText: make(map[string][]float64, catalog.Len())}
	for _, c := range catalog.Courses() {
		if vec, ok := embeddings.Get(c.ID); ok {
			l.byText[c.Text()] = vec
		}
	}
	return l
}

// Embed 实现 core.Embedder；未知文本返回 NOT_FOUND。
func (l *Lookup) Embed(_ context.Context, text string) ([]float64, error) {
	vec, ok := l.byText[text]
	if !ok {
		return nil, core.Errorf(core.ModuleEmbedding, core.ErrorCodeNotFound, "no precomputed vector for text %q", text)
	}
	return vec, nil
}

var _ core.Embedder = (*Lookup)(nil)
