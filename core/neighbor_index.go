package core

import "context"

// NeighborIndex 是近邻检索索引的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（index 或外部 Faiss/Milvus 服务）实现
//   - 位置 -> course_id 的映射在建索引时确定，重建索引前不得重新编号
//   - 实现必须保证并发读安全；本项目不在请求期间修改索引
//
// 使用场景：
//   - 候选生成：以用户向量检索近邻课程
//   - 内容相似度：以最近强意图课程的文本向量检索近邻课程
type NeighborIndex interface {
	// Search 返回按距离升序排列的 (position, distance)。
	// position < 0 表示填充位（Faiss 在结果不足时返回 -1），调用方应跳过。
	Search(ctx context.Context, query []float64, k int) ([]Neighbor, error)

	// Size 返回索引中的向量数量
	Size() int

	// CourseID 把位置解析为 course_id；位置未知时返回 false
	CourseID(position int) (int64, bool)
}

// Neighbor 是一次近邻检索的单个结果。
type Neighbor struct {
	Position int
	Distance float64
}

// DistanceToSimilarity 把距离转换为 (0,1] 内的相似度，距离越小相似度越高。
func DistanceToSimilarity(distance float64) float64 {
	if distance < 0 {
		distance = 0
	}
	return 1 / (1 + distance)
}
