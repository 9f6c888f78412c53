package recall

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/pipeline"
	"github.com/rushteam/courserec/pkg/utils"
)

// ANN 是以用户向量检索近邻课程的召回 Node（Approximate Nearest Neighbor）。
//
// 它忽略输入候选，输出按距离升序的候选，UserSimilarity = 1/(1+distance)。
// 索引返回但目录中不存在的课程记录日志并跳过；候选为空时 Pipeline 以
// "index returned nothing" 终止。
type ANN struct {
	Index         core.NeighborIndex
	Catalog       *core.Catalog
	MaxCandidates int
	Logger        zerolog.Logger

	// OnSkip 在跳过缺失引用时回调（可选，用于打点）
	OnSkip func(courseID int64)
}

func (r *ANN) Name() string        { return "recall.ann" }
func (r *ANN) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *ANN) EmptyReason() string { return core.ReasonIndexEmpty }

func (r *ANN) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if rctx == nil || !rctx.Profile.Personalizable() {
		return nil, nil
	}

	hits, err := Search(ctx, r.Index, rctx.Profile.UserVector, r.MaxCandidates)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, len(hits))
	seen := make(map[int64]struct{}, len(hits))
	for _, h := range hits {
		if _, dup := seen[h.CourseID]; dup {
			continue
		}
		course, err := r.Catalog.Lookup(h.CourseID)
		if err != nil {
			r.Logger.Warn().Int64("course_id", h.CourseID).Int("position", h.Position).Msg("skip neighbor not in catalog")
			if r.OnSkip != nil {
				r.OnSkip(h.CourseID)
			}
			continue
		}
		seen[h.CourseID] = struct{}{}

		c := core.NewCandidate(course, h.Similarity, len(out))
		c.PutLabel("recall_source", utils.Label{Value: "ann", Source: "recall"})
		c.PutLabel("user_similarity", utils.NumberLabel(h.Similarity, "recall"))
		out = append(out, c)
	}
	return out, nil
}
