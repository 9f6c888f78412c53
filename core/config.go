package core

import (
	"math"
	"strings"
)

// 默认参数，与线上混合推荐保持一致。
const (
	DefaultMaxCandidates = 50
	DefaultTopK          = 5
)

// FusionWeights 是三路信号的融合权重，非负且和为 1。
type FusionWeights struct {
	UserSimilarity    float64 `json:"user_similarity" yaml:"user_similarity" koanf:"user_similarity"`
	ContentSimilarity float64 `json:"content_similarity" yaml:"content_similarity" koanf:"content_similarity"`
	Popularity        float64 `json:"popularity" yaml:"popularity" koanf:"popularity"`
}

// DefaultFusionWeights 返回默认融合权重。
func DefaultFusionWeights() FusionWeights {
	return FusionWeights{
		UserSimilarity:    0.55,
		ContentSimilarity: 0.25,
		Popularity:        0.20,
	}
}

// Validate 检查权重非负且和为 1（容差 1e-6）。
func (w FusionWeights) Validate() error {
	for name, v := range map[string]float64{
		"user_similarity":    w.UserSimilarity,
		"content_similarity": w.ContentSimilarity,
		"popularity":         w.Popularity,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Errorf(ModuleRank, ErrorCodeInvalidInput, "weight %s must be a finite non-negative number, got %v", name, v)
		}
	}
	sum := w.UserSimilarity + w.ContentSimilarity + w.Popularity
	if math.Abs(sum-1) > 1e-6 {
		return Errorf(ModuleRank, ErrorCodeInvalidInput, "fusion weights must sum to 1, got %v", sum)
	}
	return nil
}

// ActivityWeights 是行为类型 -> 基础权重。不在表中的行为会被忽略。
type ActivityWeights map[ActivityType]float64

// DefaultActivityWeights 返回默认行为权重（浏览 0.3，报名 1.0）。
func DefaultActivityWeights() ActivityWeights {
	return ActivityWeights{
		ActivityView:     0.3,
		ActivityEnrolled: 1.0,
	}
}

// Clone 返回副本，保证配置对象不被共享修改。
func (w ActivityWeights) Clone() ActivityWeights {
	out := make(ActivityWeights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Validate 检查权重非负。
func (w ActivityWeights) Validate() error {
	for t, v := range w {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Errorf(ModuleInterest, ErrorCodeInvalidInput, "activity weight for %q must be a finite non-negative number, got %v", t, v)
		}
	}
	return nil
}

// InterestConfig 是兴趣模型的配置。
type InterestConfig struct {
	// Weights 行为权重表
	Weights ActivityWeights
	// ProgressBoost 为 true 时，事件权重额外加上 progress/100
	ProgressBoost bool
	// NormalizeVector 为 true 时，用户向量做 L2 单位化（用于内积/余弦索引）
	NormalizeVector bool
}

// DefaultInterestConfig 返回默认兴趣模型配置。
func DefaultInterestConfig() InterestConfig {
	return InterestConfig{Weights: DefaultActivityWeights()}
}

// EventWeight 返回事件权重；行为类型不在权重表中时返回 (0, false)。
func (c InterestConfig) EventWeight(ev ActivityEvent) (float64, bool) {
	base, ok := c.Weights[ev.Type]
	if !ok {
		return 0, false
	}
	if c.ProgressBoost {
		base += float64(ev.ClampedProgress()) / 100
	}
	return base, true
}

// Category 是一个兴趣类别及其关键词。
type Category struct {
	Name     string   `json:"name" yaml:"name" koanf:"name"`
	Keywords []string `json:"keywords" yaml:"keywords" koanf:"keywords"`
}

// CategoryTable 是有序的类别关键词表。顺序决定主类别平票时的取舍。
type CategoryTable struct {
	categories []Category
}

// NewCategoryTable 创建类别表。关键词统一转为小写；空名称或重复名称视为输入错误。
func NewCategoryTable(categories ...Category) (CategoryTable, error) {
	seen := make(map[string]struct{}, len(categories))
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return CategoryTable{}, Errorf(ModuleInterest, ErrorCodeInvalidInput, "category name is required")
		}
		if _, dup := seen[name]; dup {
			return CategoryTable{}, Errorf(ModuleInterest, ErrorCodeInvalidInput, "duplicate category %q", name)
		}
		seen[name] = struct{}{}
		kws := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				kws = append(kws, kw)
			}
		}
		out = append(out, Category{Name: name, Keywords: kws})
	}
	return CategoryTable{categories: out}, nil
}

// Len 返回类别数量。
func (t CategoryTable) Len() int { return len(t.categories) }

// Categories 按顺序返回类别（副本）。
func (t CategoryTable) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		kws := make([]string, len(c.Keywords))
		copy(kws, c.Keywords)
		out[i] = Category{Name: c.Name, Keywords: kws}
	}
	return out
}

// Names 按顺序返回类别名。
func (t CategoryTable) Names() []string {
	out := make([]string, len(t.categories))
	for i, c := range t.categories {
		out[i] = c.Name
	}
	return out
}

// Keywords 返回类别关键词（小写）；类别不存在时返回 false。
func (t CategoryTable) Keywords(name string) ([]string, bool) {
	for _, c := range t.categories {
		if c.Name == name {
			return c.Keywords, true
		}
	}
	return nil, false
}
