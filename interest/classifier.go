package interest

import (
	"strings"

	"github.com/rushteam/courserec/core"
)

// Matches 判断文本是否包含任一关键词（大小写不敏感的子串匹配）。
// keywords 应已是小写，CategoryTable 构建时会完成转换。
func Matches(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Classify 返回文本命中的所有类别，按类别表顺序排列。纯函数，无副作用。
func Classify(text string, table core.CategoryTable) []string {
	var out []string
	lower := strings.ToLower(text)
	for _, c := range table.Categories() {
		if Matches(lower, c.Keywords) {
			out = append(out, c.Name)
		}
	}
	return out
}

// DefaultCategories 返回内置的类别关键词表。
// 关键词按子串匹配，不收录 ai、ui 这类容易命中普通单词的短词。
func DefaultCategories() core.CategoryTable {
	table, err := core.NewCategoryTable(
		core.Category{Name: "data science", Keywords: []string{"data", "machine learning", "statistics", "analytics", "deep learning", "artificial intelligence"}},
		core.Category{Name: "programming", Keywords: []string{"python", "java", "javascript", "programming", "coding", "software"}},
		core.Category{Name: "web development", Keywords: []string{"web", "html", "css", "react", "frontend", "backend"}},
		core.Category{Name: "business", Keywords: []string{"business", "marketing", "management", "finance", "entrepreneur"}},
		core.Category{Name: "design", Keywords: []string{"design", "user experience", "user interface", "graphic", "photoshop"}},
	)
	if err != nil {
		panic(err)
	}
	return table
}
