package core

// PopularityStat 是课程的全局热度统计。
type PopularityStat struct {
	Enrollments int64   `json:"enrollments"`
	AvgProgress float64 `json:"avg_progress"`
}

// PopularityTable 是 course_id -> PopularityStat。缺失的课程按零值处理，不报错。
type PopularityTable map[int64]PopularityStat

// Get 返回课程统计，缺失时返回零值。
func (t PopularityTable) Get(id int64) PopularityStat {
	if t == nil {
		return PopularityStat{}
	}
	return t[id]
}

// PopularityMode 决定热度分的计算方式。
type PopularityMode string

const (
	// PopularityBlend: 0.7 * enrollments + 0.3 * avg_progress
	PopularityBlend PopularityMode = "blend"
	// PopularitySimple: 只看报名数
	PopularitySimple PopularityMode = "simple"
)

// Score 按模式计算原始热度分。
func (m PopularityMode) Score(s PopularityStat) float64 {
	if m == PopularitySimple {
		return float64(s.Enrollments)
	}
	return 0.7*float64(s.Enrollments) + 0.3*s.AvgProgress
}

// Valid 检查模式是否合法。
func (m PopularityMode) Valid() bool {
	return m == PopularityBlend || m == PopularitySimple
}
