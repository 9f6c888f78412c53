package loader

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	"github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/courserec/core"
)

// FeastClient 是 Feast 在线特征客户端的最小接口，*feastsdk.GrpcClient 满足该接口。
type FeastClient interface {
	GetOnlineFeatures(ctx context.Context, req *feastsdk.OnlineFeaturesRequest) (*feastsdk.OnlineFeaturesResponse, error)
}

// FeastConfig 是 Feast 在线特征配置。
type FeastConfig struct {
	Host    string `koanf:"host" yaml:"host"`
	Port    int    `koanf:"port" yaml:"port"`
	Project string `koanf:"project" yaml:"project"`
	// EntityKey 课程实体列名
	EntityKey string `koanf:"entity_key" yaml:"entity_key"`
	// EnrollmentsFeature / AvgProgressFeature 是特征引用，例如 "course_stats:enrollments"
	EnrollmentsFeature string `koanf:"enrollments_feature" yaml:"enrollments_feature"`
	AvgProgressFeature string `koanf:"avg_progress_feature" yaml:"avg_progress_feature"`
}

// DefaultFeastConfig 返回默认 Feast 配置。
func DefaultFeastConfig() FeastConfig {
	return FeastConfig{
		Port:               6565,
		EntityKey:          "course_id",
		EnrollmentsFeature: "course_stats:enrollments",
		AvgProgressFeature: "course_stats:avg_progress",
	}
}

// FeastPopularity 从 Feast 在线特征读取课程热度，实现 core.PopularityLoader。
//
// 每次加载对 CourseIDs 返回的全部课程发起一次批量请求；特征缺失的课程不写入结果，
// 由下游按 0 处理。
type FeastPopularity struct {
	Client    FeastClient
	Config    FeastConfig
	CourseIDs func() []int64
}

// NewFeastPopularity 使用官方 Go SDK 创建 gRPC 客户端。
func NewFeastPopularity(cfg FeastConfig, courseIDs func() []int64) (*FeastPopularity, error) {
	if cfg.Port == 0 {
		cfg.Port = 6565 // 默认 gRPC 端口
	}
	client, err := feastsdk.NewGrpcClient(cfg.Host, cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("create feast grpc client: %w", err)
	}
	return &FeastPopularity{Client: client, Config: cfg, CourseIDs: courseIDs}, nil
}

func (f *FeastPopularity) LoadPopularity(ctx context.Context) (core.PopularityTable, error) {
	if f.CourseIDs == nil {
		return core.PopularityTable{}, nil
	}
	ids := f.CourseIDs()
	if len(ids) == 0 {
		return core.PopularityTable{}, nil
	}
	cfg := f.Config
	if cfg.EntityKey == "" {
		cfg.EntityKey = DefaultFeastConfig().EntityKey
	}

	entities := make([]feastsdk.Row, len(ids))
	for i, id := range ids {
		entities[i] = feastsdk.Row{cfg.EntityKey: feastsdk.Int64Val(id)}
	}
	resp, err := f.Client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: []string{cfg.EnrollmentsFeature, cfg.AvgProgressFeature},
		Entities: entities,
		Project:  cfg.Project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) != len(ids) {
		return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeCorruptState, "feast returned %d rows for %d courses", len(rows), len(ids))
	}
	out := make(core.PopularityTable, len(rows))
	for i, row := range rows {
		stat, ok := popularityFromRow(row, cfg)
		if ok {
			out[ids[i]] = stat
		}
	}
	return out, nil
}

// popularityFromRow 把一行特征转为热度统计；两个特征都缺失时返回 false。
func popularityFromRow(row feastsdk.Row, cfg FeastConfig) (core.PopularityStat, bool) {
	var stat core.PopularityStat
	enrollments, okE := featureFloat(row[cfg.EnrollmentsFeature])
	progress, okP := featureFloat(row[cfg.AvgProgressFeature])
	if okE && enrollments > 0 {
		stat.Enrollments = int64(enrollments)
	}
	if okP {
		stat.AvgProgress = progress
	}
	return stat, okE || okP
}

// featureFloat 从 Feast Value 中取数值；空值或非数值类型返回 false。
func featureFloat(v *types.Value) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.GetVal().(type) {
	case *types.Value_Int64Val:
		return float64(val.Int64Val), true
	case *types.Value_Int32Val:
		return float64(val.Int32Val), true
	case *types.Value_DoubleVal:
		return val.DoubleVal, true
	case *types.Value_FloatVal:
		return float64(val.FloatVal), true
	default:
		return 0, false
	}
}

var _ core.PopularityLoader = (*FeastPopularity)(nil)
