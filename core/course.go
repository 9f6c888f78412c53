package core

import "strings"

// Course 是课程元数据，加载后不可变。
type Course struct {
	ID          int64  `json:"course_id" yaml:"course_id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Published   bool   `json:"is_published" yaml:"is_published"`
}

// Text 返回用于向量化与关键词匹配的课程文本（标题 + 描述）。
func (c Course) Text() string {
	title := strings.TrimSpace(c.Title)
	desc := strings.TrimSpace(c.Description)
	switch {
	case title == "":
		return desc
	case desc == "":
		return title
	default:
		return title + ". " + desc
	}
}

// Catalog 是课程目录：course_id -> Course 的不可变映射。
// 保留加载顺序，便于确定性遍历。
type Catalog struct {
	byID  map[int64]Course
	order []int64
}

// NewCatalog 创建课程目录，重复的 course_id 视为输入错误。
func NewCatalog(courses []Course) (*Catalog, error) {
	c := &Catalog{
		byID:  make(map[int64]Course, len(courses)),
		order: make([]int64, 0, len(courses)),
	}
	for _, course := range courses {
		if _, dup := c.byID[course.ID]; dup {
			return nil, Errorf(ModuleCatalog, ErrorCodeInvalidInput, "duplicate course_id %d", course.ID)
		}
		c.byID[course.ID] = course
		c.order = append(c.order, course.ID)
	}
	return c, nil
}

// Get 按 ID 查找课程。
func (c *Catalog) Get(id int64) (Course, bool) {
	if c == nil {
		return Course{}, false
	}
	course, ok := c.byID[id]
	return course, ok
}

// Lookup 按 ID 查找课程，不存在时返回 MISSING_REFERENCE 错误。
func (c *Catalog) Lookup(id int64) (Course, error) {
	course, ok := c.Get(id)
	if !ok {
		return Course{}, Errorf(ModuleCatalog, ErrorCodeMissingReference, "course %d not in catalog", id)
	}
	return course, nil
}

// Len 返回课程数量。
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// IDs 按加载顺序返回所有课程 ID（副本）。
func (c *Catalog) IDs() []int64 {
	if c == nil {
		return nil
	}
	out := make([]int64, len(c.order))
	copy(out, c.order)
	return out
}

// Courses 按加载顺序返回所有课程（副本）。
func (c *Catalog) Courses() []Course {
	if c == nil {
		return nil
	}
	out := make([]Course, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Published 返回只包含已发布课程的新目录。
func (c *Catalog) Published() *Catalog {
	out := &Catalog{byID: make(map[int64]Course), order: make([]int64, 0, c.Len())}
	for _, course := range c.Courses() {
		if !course.Published {
			continue
		}
		out.byID[course.ID] = course
		out.order = append(out.order, course.ID)
	}
	return out
}
