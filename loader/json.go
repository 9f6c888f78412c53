package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rushteam/courserec/core"
)

// 数据目录下的默认文件名。
const (
	CoursesFile    = "courses.json"
	EmbeddingsFile = "embeddings.json"
	PopularityFile = "popularity.json"
	ActivityFile   = "activity.json"
	ActivityDir    = "activity"
)

// JSONFiles 从数据目录加载全部数据：
//
//	{Dir}/courses.json              课程数组
//	{Dir}/embeddings.json           [{"course_id":..,"vector":[..]}]
//	{Dir}/popularity.json           {"<course_id>": {"enrollments":..,"avg_progress":..}}
//	{Dir}/activity/{learner}.json   单个学习者的 {"activities": [...]}
//	{Dir}/activity.json             没有按学习者拆分时的默认行为日志
type JSONFiles struct {
	Dir string
	// PublishedOnly 为 true 时只加载已发布课程
	PublishedOnly bool
}

func (l *JSONFiles) path(name string) string { return filepath.Join(l.Dir, name) }

func (l *JSONFiles) LoadCatalog(_ context.Context) (*core.Catalog, error) {
	data, err := os.ReadFile(l.path(CoursesFile))
	if err != nil {
		return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeNotFound, "read courses: %v", err)
	}
	return ParseCourses(data, l.PublishedOnly)
}

func (l *JSONFiles) LoadEmbeddings(_ context.Context) (*core.EmbeddingStore, error) {
	data, err := os.ReadFile(l.path(EmbeddingsFile))
	if err != nil {
		return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeNotFound, "read embeddings: %v", err)
	}
	return ParseEmbeddings(data)
}

// LoadPopularity 文件不存在时返回空表（所有课程热度为 0）。
func (l *JSONFiles) LoadPopularity(_ context.Context) (core.PopularityTable, error) {
	data, err := os.ReadFile(l.path(PopularityFile))
	if errors.Is(err, fs.ErrNotExist) {
		return core.PopularityTable{}, nil
	}
	if err != nil {
		return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeNotFound, "read popularity: %v", err)
	}
	return ParsePopularity(data)
}

// LoadActivity 优先读取 activity/{learner}.json，不存在时回退到 activity.json。
// 两者都不存在时返回空日志。
func (l *JSONFiles) LoadActivity(_ context.Context, learnerID string) (core.ActivityLog, error) {
	candidates := []string{l.path(ActivityFile)}
	if learnerID != "" {
		candidates = append([]string{filepath.Join(l.Dir, ActivityDir, filepath.Base(learnerID)+".json")}, candidates...)
	}
	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeNotFound, "read activity: %v", err)
		}
		return ParseActivity(data)
	}
	return nil, nil
}

var (
	_ core.CatalogLoader    = (*JSONFiles)(nil)
	_ core.EmbeddingLoader  = (*JSONFiles)(nil)
	_ core.PopularityLoader = (*JSONFiles)(nil)
	_ core.ActivityLoader   = (*JSONFiles)(nil)
)
