package recall

import (
	"context"

	"github.com/rushteam/courserec/core"
)

// Hit 是解析后的近邻结果：位置已映射为 course_id，距离已转换为相似度。
type Hit struct {
	Position   int
	CourseID   int64
	Distance   float64
	Similarity float64
}

// Search 以 query 检索前 min(maxCandidates, index.Size()) 个近邻，并通过索引的
// 位置表把位置解析为 course_id。
//
//   - 索引为空：CORRUPT_STATE
//   - 位置 < 0：填充位，跳过
//   - 位置无法解析：CORRUPT_STATE
func Search(ctx context.Context, index core.NeighborIndex, query []float64, maxCandidates int) ([]Hit, error) {
	if index == nil || index.Size() == 0 {
		return nil, core.Errorf(core.ModuleIndex, core.ErrorCodeCorruptState, "neighbor index is empty")
	}
	if maxCandidates <= 0 {
		maxCandidates = core.DefaultMaxCandidates
	}
	k := min(maxCandidates, index.Size())

	neighbors, err := index.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(neighbors))
	for _, nb := range neighbors {
		if nb.Position < 0 {
			continue
		}
		id, ok := index.CourseID(nb.Position)
		if !ok {
			return nil, core.Errorf(core.ModuleIndex, core.ErrorCodeCorruptState, "unknown index position %d", nb.Position)
		}
		hits = append(hits, Hit{
			Position:   nb.Position,
			CourseID:   id,
			Distance:   nb.Distance,
			Similarity: core.DistanceToSimilarity(nb.Distance),
		})
	}
	return hits, nil
}

// SimilarityMap 把命中结果转为 course_id -> 相似度。同一课程出现多次时保留第一次。
func SimilarityMap(hits []Hit) map[int64]float64 {
	out := make(map[int64]float64, len(hits))
	for _, h := range hits {
		if _, ok := out[h.CourseID]; !ok {
			out[h.CourseID] = h.Similarity
		}
	}
	return out
}
