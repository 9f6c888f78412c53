// Package interest 从学习者行为日志推导兴趣画像：用户向量与类别兴趣分布。
package interest

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/pkg/vecmath"
)

// Model 是兴趣模型。配置、类别表、课程目录与向量库在构造时显式注入，
// 构建后只读，可被多个请求并发使用。
type Model struct {
	config     core.InterestConfig
	categories core.CategoryTable
	catalog    *core.Catalog
	embeddings *core.EmbeddingStore
	logger     zerolog.Logger
}

// NewModel 创建兴趣模型。
func NewModel(cfg core.InterestConfig, categories core.CategoryTable, catalog *core.Catalog, embeddings *core.EmbeddingStore, logger zerolog.Logger) *Model {
	if cfg.Weights == nil {
		cfg.Weights = core.DefaultActivityWeights()
	} else {
		cfg.Weights = cfg.Weights.Clone()
	}
	return &Model{
		config:     cfg,
		categories: categories,
		catalog:    catalog,
		embeddings: embeddings,
		logger:     logger.With().Str("component", "interest").Logger(),
	}
}

// Categories 返回模型使用的类别表。
func (m *Model) Categories() core.CategoryTable { return m.categories }

// Build 从行为日志构建兴趣画像。
//
// 用户向量 = Σ weight·embedding / Σ weight，可选 L2 单位化；总权重为 0 时为 nil。
// 类别分布：事件权重累加到课程文本命中的每个类别，再除以所有类别累加值之和。
// 课程不在目录或没有向量的事件整条跳过并记录日志；向量维度不一致视为状态损坏。
func (m *Model) Build(ctx context.Context, log core.ActivityLog) (*core.InterestProfile, error) {
	var acc vecmath.MeanAccumulator
	names := m.categories.Names()
	buckets := make(map[string]float64, len(names))
	skipped := 0

	for _, ev := range log {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w, ok := m.config.EventWeight(ev)
		if !ok {
			continue
		}

		course, vec, reason := m.resolve(ev.CourseID)
		if reason != "" {
			skipped++
			m.logger.Warn().Int64("course_id", ev.CourseID).Str("reason", reason).Msg("skip activity event")
			continue
		}
		if !acc.Add(vec, w) {
			return nil, core.Errorf(core.ModuleInterest, core.ErrorCodeCorruptState,
				"course %d vector dimension %d, want %d", ev.CourseID, len(vec), acc.Dim())
		}
		for _, name := range Classify(course.Text(), m.categories) {
			buckets[name] += w
		}
	}

	var total float64
	for _, name := range names {
		total += buckets[name]
	}
	if total == 0 {
		total = 1
	}
	for name := range buckets {
		buckets[name] /= total
	}
	dist := core.NewInterestDistribution(names, buckets)

	profile := &core.InterestProfile{
		TotalWeight: acc.Weight(),
		Interest:    dist,
		Skipped:     skipped,
	}
	if mean := acc.Mean(); mean != nil {
		if m.config.NormalizeVector {
			mean = vecmath.Normalize(mean)
		}
		profile.UserVector = mean
	}
	profile.PrimaryCategory, profile.HasPrimary = dist.Primary()
	return profile, nil
}

// resolve 取事件引用的课程与向量；任一缺失时返回缺失原因。
func (m *Model) resolve(courseID int64) (core.Course, []float64, string) {
	course, err := m.catalog.Lookup(courseID)
	if err != nil {
		return core.Course{}, nil, "not in catalog"
	}
	vec, ok := m.embeddings.Get(courseID)
	if !ok {
		return core.Course{}, nil, "no embedding"
	}
	return course, vec, ""
}
