// Package loader 从文件、Redis、SQLite 与 Feast 加载课程目录、向量库、行为日志与课程热度。
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/pkg/conv"
)

// activityDoc 兼容 {"activities": [...]} 与裸数组两种写法。
type activityDoc struct {
	Activities []activityRecord `json:"activities"`
}

type activityRecord struct {
	CourseID     any    `json:"course_id"`
	ActivityType string `json:"activity_type"`
	Progress     any    `json:"progress"`
}

func (r activityRecord) event() (core.ActivityEvent, error) {
	id, ok := conv.ToInt64(r.CourseID)
	if !ok {
		return core.ActivityEvent{}, fmt.Errorf("invalid course_id %v", r.CourseID)
	}
	ev := core.ActivityEvent{CourseID: id, Type: core.ActivityType(r.ActivityType)}
	if r.Progress != nil {
		p, ok := conv.ToInt64(r.Progress)
		if !ok {
			return core.ActivityEvent{}, fmt.Errorf("invalid progress %v for course %d", r.Progress, id)
		}
		ev.Progress = int(p)
	}
	return ev, nil
}

// ParseActivity 解析行为日志 JSON，保持文件中的顺序。
func ParseActivity(data []byte) (core.ActivityLog, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	var records []activityRecord
	if data[0] == '[' {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeInvalidInput, "parse activity: %v", err)
		}
	} else {
		var doc activityDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeInvalidInput, "parse activity: %v", err)
		}
		records = doc.Activities
	}
	out := make(core.ActivityLog, 0, len(records))
	for i, r := range records {
		ev, err := r.event()
		if err != nil {
			return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeInvalidInput, "activity[%d]: %v", i, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// EncodeActivity 把行为日志编码为 {"activities": [...]}。
func EncodeActivity(log core.ActivityLog) ([]byte, error) {
	doc := struct {
		Activities core.ActivityLog `json:"activities"`
	}{Activities: log}
	if doc.Activities == nil {
		doc.Activities = core.ActivityLog{}
	}
	return json.Marshal(doc)
}

// parsePopularityStat 解析单个课程的热度统计，数值字段允许是数字或数字字符串。
func parsePopularityStat(raw map[string]any) (core.PopularityStat, error) {
	var stat core.PopularityStat
	if v, ok := raw["enrollments"]; ok {
		n, ok := conv.ToInt64(v)
		if !ok {
			return stat, fmt.Errorf("invalid enrollments %v", v)
		}
		stat.Enrollments = n
	}
	if v, ok := raw["avg_progress"]; ok {
		f, ok := conv.ToFloat64(v)
		if !ok {
			return stat, fmt.Errorf("invalid avg_progress %v", v)
		}
		stat.AvgProgress = f
	}
	if stat.Enrollments < 0 {
		return stat, fmt.Errorf("negative enrollments %d", stat.Enrollments)
	}
	return stat, nil
}

// ParsePopularity 解析以课程 ID 字符串为 key 的热度表。
func ParsePopularity(data []byte) (core.PopularityTable, error) {
	var raw map[string]map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeInvalidInput, "parse popularity: %v", err)
	}
	out := make(core.PopularityTable, len(raw))
	for key, fields := range raw {
		id, ok := conv.ParseID(key)
		if !ok {
			return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeInvalidInput, "popularity key %q is not a course id", key)
		}
		stat, err := parsePopularityStat(fields)
		if err != nil {
			return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeInvalidInput, "popularity %s: %v", key, err)
		}
		out[id] = stat
	}
	return out, nil
}

type embeddingRecord struct {
	CourseID int64     `json:"course_id"`
	Vector   []float64 `json:"vector"`
}

// ParseEmbeddings 解析 [{"course_id":..,"vector":[..]}, ...]，数组顺序即索引位置顺序。
func ParseEmbeddings(data []byte) (*core.EmbeddingStore, error) {
	var records []embeddingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeInvalidInput, "parse embeddings: %v", err)
	}
	ids := make([]int64, len(records))
	vectors := make([][]float64, len(records))
	for i, r := range records {
		ids[i], vectors[i] = r.CourseID, r.Vector
	}
	return core.NewEmbeddingStore(ids, vectors)
}

// ParseCourses 解析课程数组。publishedOnly 为 true 时丢弃未发布课程。
func ParseCourses(data []byte, publishedOnly bool) (*core.Catalog, error) {
	var courses []core.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeInvalidInput, "parse courses: %v", err)
	}
	catalog, err := core.NewCatalog(courses)
	if err != nil {
		return nil, err
	}
	if publishedOnly {
		return catalog.Published(), nil
	}
	return catalog, nil
}
