package core

// ActivityType 是学习者行为类型。
type ActivityType string

const (
	ActivityView           ActivityType = "view"
	ActivityEnrolled       ActivityType = "enrolled"
	ActivityProgressUpdate ActivityType = "progress_update"
	ActivityCompleted      ActivityType = "completed"
)

// IsStrongIntent 报名与学习进度更新视为强意图行为。
func (t ActivityType) IsStrongIntent() bool {
	return t == ActivityEnrolled || t == ActivityProgressUpdate
}

// ActivityEvent 是学习者对课程的一次行为。时间由 ActivityLog 中的顺序隐式表达。
type ActivityEvent struct {
	CourseID int64        `json:"course_id"`
	Type     ActivityType `json:"activity_type"`
	Progress int          `json:"progress,omitempty"` // 百分比 [0,100]
}

// ClampedProgress 返回截断到 [0,100] 的进度。
func (e ActivityEvent) ClampedProgress() int {
	switch {
	case e.Progress < 0:
		return 0
	case e.Progress > 100:
		return 100
	default:
		return e.Progress
	}
}

// ActivityLog 是按时间排序的行为序列，越靠后越新。
type ActivityLog []ActivityEvent

// Seen 返回出现过的所有课程（浏览与报名都算）。
func (l ActivityLog) Seen() map[int64]struct{} {
	out := make(map[int64]struct{}, len(l))
	for _, ev := range l {
		out[ev.CourseID] = struct{}{}
	}
	return out
}

// Enrolled 返回已报名的课程集合。
func (l ActivityLog) Enrolled() map[int64]struct{} {
	out := make(map[int64]struct{})
	for _, ev := range l {
		if ev.Type == ActivityEnrolled {
			out[ev.CourseID] = struct{}{}
		}
	}
	return out
}

// LastStrongIntent 从末尾向前查找最近一次强意图行为。
func (l ActivityLog) LastStrongIntent() (ActivityEvent, bool) {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].Type.IsStrongIntent() {
			return l[i], true
		}
	}
	return ActivityEvent{}, false
}
