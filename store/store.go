// Package store 提供 core.Store / core.KeyValueStore 的实现。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 键约定：
//
//	learner:activity:{learner_id}  -> JSON 数组，按时间排序的行为日志
//	course:popularity              -> Hash，field 为 course_id，value 为 {"enrollments":..,"avg_progress":..}
//
// 示例：
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
package store

import "github.com/rushteam/courserec/core"

// ErrNotFound 是 core.ErrStoreNotFound 的别名，便于在实现包内使用。
var ErrNotFound = core.ErrStoreNotFound
