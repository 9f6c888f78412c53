package engine

import (
	"maps"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/pkg/utils"
)

// Result 是一次推荐的结果与诊断信息。
type Result struct {
	RequestID string           `json:"request_id"`
	Items     []Recommendation `json:"items"`
	// Reason 为空表示正常返回；Items 为空时说明原因
	Reason  string                `json:"reason,omitempty"`
	Profile *core.InterestProfile `json:"-"`
}

// Recommendation 是一条推荐。Score 为融合分，各信号为归一化后的值。
// Labels 记录召回来源、内容锚点、热度模式与融合分，用于解释。
type Recommendation struct {
	CourseID          int64                  `json:"course_id"`
	Title             string                 `json:"title"`
	Score             float64                `json:"score"`
	UserSimilarity    float64                `json:"user_similarity"`
	ContentSimilarity float64                `json:"content_similarity"`
	Popularity        float64                `json:"popularity"`
	Labels            map[string]utils.Label `json:"labels,omitempty"`
}

// Empty 是否没有任何推荐。
func (r *Result) Empty() bool { return len(r.Items) == 0 }

func toRecommendations(candidates []*core.Candidate) []Recommendation {
	out := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Recommendation{
			CourseID:          c.ID(),
			Title:             c.Course.Title,
			Score:             c.FinalScore,
			UserSimilarity:    c.UserSimilarity,
			ContentSimilarity: c.ContentSimilarity,
			Popularity:        c.Popularity,
			Labels:            maps.Clone(c.Labels),
		})
	}
	return out
}
