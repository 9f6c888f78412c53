package core

// RecommendContext 承载学习者/行为/兴趣画像，贯穿整个 Pipeline 透传。
// 每个请求独占一个实例，不在请求间共享。
type RecommendContext struct {
	RequestID string
	LearnerID string

	// Activity 是本次请求的行为日志快照
	Activity ActivityLog

	// Profile 是由 Activity 推导出的兴趣画像
	Profile *InterestProfile

	// TopK 调用方请求的返回数量
	TopK int

	seen     map[int64]struct{}
	enrolled map[int64]struct{}
}

// NewRecommendContext 创建请求上下文，并预先计算已看/已报名集合。
func NewRecommendContext(requestID, learnerID string, activity ActivityLog, topK int) *RecommendContext {
	return &RecommendContext{
		RequestID: requestID,
		LearnerID: learnerID,
		Activity:  activity,
		TopK:      topK,
		seen:      activity.Seen(),
		enrolled:  activity.Enrolled(),
	}
}

// HasSeen 课程是否出现在行为日志中（浏览或报名）。
func (rctx *RecommendContext) HasSeen(id int64) bool {
	if rctx.seen == nil {
		rctx.seen = rctx.Activity.Seen()
	}
	_, ok := rctx.seen[id]
	return ok
}

// HasEnrolled 课程是否已报名。
func (rctx *RecommendContext) HasEnrolled(id int64) bool {
	if rctx.enrolled == nil {
		rctx.enrolled = rctx.Activity.Enrolled()
	}
	_, ok := rctx.enrolled[id]
	return ok
}

// PrimaryCategory 返回主类别；没有画像或没有主类别时返回 false。
func (rctx *RecommendContext) PrimaryCategory() (string, bool) {
	if rctx == nil || rctx.Profile == nil || !rctx.Profile.HasPrimary {
		return "", false
	}
	return rctx.Profile.PrimaryCategory, true
}
