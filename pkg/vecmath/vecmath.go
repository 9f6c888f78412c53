// Package vecmath 提供推荐链路用到的向量运算与累加器。
//
// 所有函数都不修改入参；维度不一致时返回 ok=false，由调用方决定如何报错。
package vecmath

import "math"

// Dot 返回两个向量的内积。
func Dot(a, b []float64) (float64, bool) {
	if len(a) != len(b) {
		return 0, false
	}
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s, true
}

// SquaredL2 返回欧氏距离的平方（与 Faiss IndexFlatL2 返回值一致）。
func SquaredL2(a, b []float64) (float64, bool) {
	if len(a) != len(b) {
		return 0, false
	}
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s, true
}

// L2 返回欧氏距离。
func L2(a, b []float64) (float64, bool) {
	s, ok := SquaredL2(a, b)
	return math.Sqrt(s), ok
}

// Norm 返回向量的 L2 范数。
func Norm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

// Cosine 返回余弦相似度；任一向量为零向量时返回 0。
func Cosine(a, b []float64) (float64, bool) {
	dot, ok := Dot(a, b)
	if !ok {
		return 0, false
	}
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0, true
	}
	return dot / (na * nb), true
}

// Normalize 返回单位化后的新向量；零向量原样复制返回。
func Normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	n := Norm(v)
	if n == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = x / n
	}
	return out
}

// MeanAccumulator 累加加权向量，Mean 返回 Σ w·v / Σ w。
// 第一次 Add 确定维度。
type MeanAccumulator struct {
	sum    []float64
	weight float64
}

// Add 累加一个加权向量。维度与已有累加不一致时返回 false 且不修改状态。
func (m *MeanAccumulator) Add(v []float64, w float64) bool {
	if m.sum == nil {
		m.sum = make([]float64, len(v))
	}
	if len(v) != len(m.sum) {
		return false
	}
	for i, x := range v {
		m.sum[i] += w * x
	}
	m.weight += w
	return true
}

// Weight 返回累计权重。
func (m *MeanAccumulator) Weight() float64 { return m.weight }

// Dim 返回累加器维度，未累加任何向量时为 0。
func (m *MeanAccumulator) Dim() int { return len(m.sum) }

// Mean 返回加权平均向量；累计权重为 0 时返回 nil。
func (m *MeanAccumulator) Mean() []float64 {
	if m.weight <= 0 || m.sum == nil {
		return nil
	}
	out := make([]float64, len(m.sum))
	for i, x := range m.sum {
		out[i] = x / m.weight
	}
	return out
}

// MinMax 记录一组数值的最小值与最大值。
type MinMax struct {
	Min, Max float64
	n        int
}

// Observe 记录一个值。
func (m *MinMax) Observe(v float64) {
	if m.n == 0 || v < m.Min {
		m.Min = v
	}
	if m.n == 0 || v > m.Max {
		m.Max = v
	}
	m.n++
}

// Count 返回已记录的值个数。
func (m *MinMax) Count() int { return m.n }

// Scale 把 v 缩放到 [0,1]；最大值等于最小值（零方差）时返回 0。
func (m *MinMax) Scale(v float64) float64 {
	span := m.Max - m.Min
	if m.n == 0 || span <= 0 {
		return 0
	}
	s := (v - m.Min) / span
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}
