package core

import "github.com/rushteam/courserec/pkg/utils"

// Candidate 是推荐链路中的统一承载结构：课程、三路信号、最终分、标签。
// 只在一次推荐请求内存活。
//
// Labels 用于解释与策略驱动；FinalScore 用于排序决策。
type Candidate struct {
	Course Course

	UserSimilarity    float64
	ContentSimilarity float64
	Popularity        float64
	FinalScore        float64

	// Order 是候选在近邻检索结果中的位置，用作排序平票时的稳定次序
	Order int

	Labels map[string]utils.Label
}

// NewCandidate 创建候选，其余信号为 0。
func NewCandidate(course Course, userSimilarity float64, order int) *Candidate {
	return &Candidate{
		Course:         course,
		UserSimilarity: userSimilarity,
		Order:          order,
		Labels:         make(map[string]utils.Label),
	}
}

// ID 返回候选课程 ID。
func (c *Candidate) ID() int64 { return c.Course.ID }

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}
