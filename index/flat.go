// Package index 提供内存中的精确近邻索引，满足 core.NeighborIndex 约定。
//
// 生产环境可替换为 Faiss/Milvus 等外部服务，只要实现 core.NeighborIndex 即可。
package index

import (
	"context"
	"sort"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/pkg/vecmath"
)

// Metric 是距离度量。
type Metric string

const (
	// MetricL2 欧氏距离平方，与 Faiss IndexFlatL2 一致
	MetricL2 Metric = "l2"
	// MetricInnerProduct 内积，距离定义为 1 - ip；配合单位向量即余弦距离
	MetricInnerProduct Metric = "inner_product"
)

// Valid 检查度量是否支持。
func (m Metric) Valid() bool {
	return m == MetricL2 || m == MetricInnerProduct
}

// FlatIndex 是暴力检索（brute-force）的近邻索引。
//
// 特点：
//   - 位置 -> course_id 的映射在 Build 时确定并显式保存
//   - 构建后不可变，并发读安全
//   - 距离相同时按位置升序，结果确定
type FlatIndex struct {
	metric    Metric
	dim       int
	positions []int64     // position -> course_id
	vectors   [][]float64 // position -> vector
}

// Build 按向量库的插入顺序构建索引。
// 使用内积度量时向量会被单位化（对应 normalize_embeddings）。
func Build(store *core.EmbeddingStore, metric Metric) (*FlatIndex, error) {
	if metric == "" {
		metric = MetricL2
	}
	if !metric.Valid() {
		return nil, core.Errorf(core.ModuleIndex, core.ErrorCodeNotSupported, "unsupported metric %q", metric)
	}
	ids := store.IDs()
	idx := &FlatIndex{
		metric:    metric,
		dim:       store.Dim(),
		positions: make([]int64, 0, len(ids)),
		vectors:   make([][]float64, 0, len(ids)),
	}
	for _, id := range ids {
		vec, _ := store.Get(id)
		if metric == MetricInnerProduct {
			vec = vecmath.Normalize(vec)
		}
		idx.positions = append(idx.positions, id)
		idx.vectors = append(idx.vectors, vec)
	}
	return idx, nil
}

// Metric 返回索引使用的距离度量。
func (f *FlatIndex) Metric() Metric { return f.metric }

// Dim 返回向量维度。
func (f *FlatIndex) Dim() int { return f.dim }

// Size 实现 core.NeighborIndex。
func (f *FlatIndex) Size() int { return len(f.positions) }

// CourseID 实现 core.NeighborIndex。
func (f *FlatIndex) CourseID(position int) (int64, bool) {
	if position < 0 || position >= len(f.positions) {
		return 0, false
	}
	return f.positions[position], true
}

// Search 实现 core.NeighborIndex，返回按距离升序的前 k 个近邻。
// inner_product 下查询向量同样先做 L2 单位化，距离 1-ip 落在 [0,2]。
func (f *FlatIndex) Search(ctx context.Context, query []float64, k int) ([]core.Neighbor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(query) != f.dim {
		return nil, core.Errorf(core.ModuleIndex, core.ErrorCodeCorruptState, "query dimension %d, index dimension %d", len(query), f.dim)
	}
	if k <= 0 || len(f.vectors) == 0 {
		return nil, nil
	}

	if f.metric == MetricInnerProduct {
		query = vecmath.Normalize(query)
	}
	out := make([]core.Neighbor, 0, len(f.vectors))
	for pos, vec := range f.vectors {
		var d float64
		switch f.metric {
		case MetricInnerProduct:
			ip, _ := vecmath.Dot(query, vec)
			d = 1 - ip
		default:
			d, _ = vecmath.SquaredL2(query, vec)
		}
		out = append(out, core.Neighbor{Position: pos, Distance: d})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}
