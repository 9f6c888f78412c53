package loader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/courserec/core"
)

// Bundle 是一次推荐服务启动所需的只读数据快照。
type Bundle struct {
	Catalog    *core.Catalog
	Embeddings *core.EmbeddingStore
	Popularity core.PopularityTable
}

// LoadBundle 并发加载课程目录、向量库与课程热度，任一失败即返回错误。
// popularity 为 nil 时热度表为空。
func LoadBundle(ctx context.Context, catalog core.CatalogLoader, embeddings core.EmbeddingLoader, popularity core.PopularityLoader) (*Bundle, error) {
	var b Bundle
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		c, err := catalog.LoadCatalog(ctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		b.Catalog = c
		return nil
	})
	eg.Go(func() error {
		e, err := embeddings.LoadEmbeddings(ctx)
		if err != nil {
			return fmt.Errorf("load embeddings: %w", err)
		}
		b.Embeddings = e
		return nil
	})
	if popularity != nil {
		eg.Go(func() error {
			p, err := popularity.LoadPopularity(ctx)
			if err != nil {
				return fmt.Errorf("load popularity: %w", err)
			}
			b.Popularity = p
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if b.Popularity == nil {
		b.Popularity = core.PopularityTable{}
	}
	return &b, nil
}
