package loader

import (
	"context"
	"encoding/json"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/pkg/conv"
)

// 默认存储 key。
const (
	DefaultActivityKeyPrefix = "learner:activity"
	DefaultPopularityKey     = "course:popularity"
)

// StoreLoader 从 KeyValueStore（Redis/内存）读取行为日志与课程热度。
//
//	{ActivityKeyPrefix}:{learner_id} -> {"activities": [...]}
//	{PopularityKey}                  -> Hash: course_id -> {"enrollments":..,"avg_progress":..}
type StoreLoader struct {
	Store             core.KeyValueStore
	ActivityKeyPrefix string
	PopularityKey     string
}

func (l *StoreLoader) activityKey(learnerID string) string {
	prefix := l.ActivityKeyPrefix
	if prefix == "" {
		prefix = DefaultActivityKeyPrefix
	}
	return prefix + ":" + learnerID
}

func (l *StoreLoader) popularityKey() string {
	if l.PopularityKey == "" {
		return DefaultPopularityKey
	}
	return l.PopularityKey
}

// LoadActivity key 不存在时返回空日志。
func (l *StoreLoader) LoadActivity(ctx context.Context, learnerID string) (core.ActivityLog, error) {
	data, err := l.Store.Get(ctx, l.activityKey(learnerID))
	if core.IsStoreNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseActivity(data)
}

// SaveActivity 覆盖写入学习者行为日志。
func (l *StoreLoader) SaveActivity(ctx context.Context, learnerID string, log core.ActivityLog, ttl ...int) error {
	data, err := EncodeActivity(log)
	if err != nil {
		return err
	}
	return l.Store.Set(ctx, l.activityKey(learnerID), data, ttl...)
}

func (l *StoreLoader) LoadPopularity(ctx context.Context) (core.PopularityTable, error) {
	fields, err := l.Store.HGetAll(ctx, l.popularityKey())
	if err != nil {
		return nil, err
	}
	out := make(core.PopularityTable, len(fields))
	for field, raw := range fields {
		id, ok := conv.ParseID(field)
		if !ok {
			return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeInvalidInput, "popularity field %q is not a course id", field)
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeInvalidInput, "popularity %s: %v", field, err)
		}
		stat, err := parsePopularityStat(m)
		if err != nil {
			return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeInvalidInput, "popularity %s: %v", field, err)
		}
		out[id] = stat
	}
	return out, nil
}

// SavePopularity 写入课程热度 Hash。
func (l *StoreLoader) SavePopularity(ctx context.Context, table core.PopularityTable) error {
	for id, stat := range table {
		data, err := json.Marshal(stat)
		if err != nil {
			return err
		}
		if err := l.Store.HSet(ctx, l.popularityKey(), conv.FormatID(id), data); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ core.ActivityLoader   = (*StoreLoader)(nil)
	_ core.PopularityLoader = (*StoreLoader)(nil)
)
