package core

// InterestDistribution 是类别 -> 非负权重，和为 1（或全为 0）。
// 类别顺序与 CategoryTable 一致，用于确定性遍历与平票取舍。
type InterestDistribution struct {
	order   []string
	weights map[string]float64
}

// NewInterestDistribution 按类别顺序与权重构建分布。weights 中不在 order 内的 key 会被忽略。
func NewInterestDistribution(order []string, weights map[string]float64) InterestDistribution {
	d := InterestDistribution{
		order:   make([]string, len(order)),
		weights: make(map[string]float64, len(order)),
	}
	copy(d.order, order)
	for _, name := range order {
		d.weights[name] = weights[name]
	}
	return d
}

// Weight 返回类别权重。
func (d InterestDistribution) Weight(category string) float64 {
	return d.weights[category]
}

// Categories 按类别表顺序返回类别名。
func (d InterestDistribution) Categories() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Map 返回类别权重副本。
func (d InterestDistribution) Map() map[string]float64 {
	out := make(map[string]float64, len(d.weights))
	for k, v := range d.weights {
		out[k] = v
	}
	return out
}

// Sum 返回所有权重之和。
func (d InterestDistribution) Sum() float64 {
	var s float64
	for _, name := range d.order {
		s += d.weights[name]
	}
	return s
}

// Primary 返回权重最大的类别；平票取类别表中靠前者，全为 0 时返回 false。
func (d InterestDistribution) Primary() (string, bool) {
	best, bestW := "", 0.0
	for _, name := range d.order {
		if w := d.weights[name]; w > bestW {
			best, bestW = name, w
		}
	}
	return best, bestW > 0
}

// InterestProfile 是一次请求内由行为日志推导出的兴趣画像，不持久化。
type InterestProfile struct {
	// UserVector 为 nil 表示无法个性化
	UserVector []float64
	// TotalWeight 参与用户向量的事件权重之和
	TotalWeight float64
	// Interest 类别兴趣分布
	Interest InterestDistribution
	// PrimaryCategory 主类别；HasPrimary 为 false 时不做类别门控
	PrimaryCategory string
	HasPrimary      bool
	// Skipped 因引用缺失而被跳过的事件数
	Skipped int
}

// Personalizable 用户向量是否可用。
func (p *InterestProfile) Personalizable() bool {
	return p != nil && len(p.UserVector) > 0
}
