package core

import "context"

// CatalogLoader 加载课程目录。
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (*Catalog, error)
}

// EmbeddingLoader 加载课程向量库。
type EmbeddingLoader interface {
	LoadEmbeddings(ctx context.Context) (*EmbeddingStore, error)
}

// ActivityLoader 加载某个学习者按时间排序的行为日志。
type ActivityLoader interface {
	LoadActivity(ctx context.Context, learnerID string) (ActivityLog, error)
}

// PopularityLoader 加载课程热度统计。
type PopularityLoader interface {
	LoadPopularity(ctx context.Context) (PopularityTable, error)
}
