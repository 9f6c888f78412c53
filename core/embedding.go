package core

// EmbeddingStore 保存每门课程的稠密向量，按 course_id 与目录对齐（而不是按位置）。
//
// 不变量：
//   - 所有向量维度相同（Dim）
//   - 插入顺序即索引构建时的位置顺序，位置 -> course_id 的映射由索引显式维护
//
// 构建完成后只读，可以被多个并发请求共享。
type EmbeddingStore struct {
	dim     int
	order   []int64
	vectors map[int64][]float64
}

// NewEmbeddingStore 根据有序的 ID 与向量创建向量库。
// 维度不一致或 ID 重复都视为状态损坏。
func NewEmbeddingStore(ids []int64, vectors [][]float64) (*EmbeddingStore, error) {
	if len(ids) != len(vectors) {
		return nil, Errorf(ModuleEmbedding, ErrorCodeInvalidInput, "ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	s := &EmbeddingStore{
		order:   make([]int64, 0, len(ids)),
		vectors: make(map[int64][]float64, len(ids)),
	}
	for i, id := range ids {
		vec := vectors[i]
		if len(vec) == 0 {
			return nil, Errorf(ModuleEmbedding, ErrorCodeCorruptState, "course %d has an empty vector", id)
		}
		if s.dim == 0 {
			s.dim = len(vec)
		}
		if len(vec) != s.dim {
			return nil, Errorf(ModuleEmbedding, ErrorCodeCorruptState, "course %d vector dimension %d, want %d", id, len(vec), s.dim)
		}
		if _, dup := s.vectors[id]; dup {
			return nil, Errorf(ModuleEmbedding, ErrorCodeCorruptState, "duplicate vector for course %d", id)
		}
		cp := make([]float64, len(vec))
		copy(cp, vec)
		s.vectors[id] = cp
		s.order = append(s.order, id)
	}
	return s, nil
}

// Dim 返回向量维度；空向量库返回 0。
func (s *EmbeddingStore) Dim() int {
	if s == nil {
		return 0
	}
	return s.dim
}

// Len 返回向量数量。
func (s *EmbeddingStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Get 返回课程向量。返回值与内部共享，调用方不得修改。
func (s *EmbeddingStore) Get(id int64) ([]float64, bool) {
	if s == nil {
		return nil, false
	}
	vec, ok := s.vectors[id]
	return vec, ok
}

// IDs 按插入顺序返回所有课程 ID（副本）。
func (s *EmbeddingStore) IDs() []int64 {
	if s == nil {
		return nil
	}
	out := make([]int64, len(s.order))
	copy(out, s.order)
	return out
}
