package rank

import "github.com/rushteam/courserec/pkg/vecmath"

// MinMaxNormalize 把 values 缩放到 [0,1]，返回新切片。
// 最大值等于最小值（零方差，包括只有一个值）时全部为 0.0。
func MinMaxNormalize(values []float64) []float64 {
	var mm vecmath.MinMax
	for _, v := range values {
		mm.Observe(v)
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = mm.Scale(v)
	}
	return out
}
