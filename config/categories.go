package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/courserec/core"
)

// ParseCategories 解析类别关键词 YAML。categories 可以写成列表或紧凑的映射，
// 两种写法都按书写顺序决定类别优先级：
//
//	categories:
//	  - name: data science
//	    keywords: [data, machine learning]
//
//	categories:
//	  data science: [data, machine learning]
//	  programming: [python, golang]
func ParseCategories(data []byte) (core.CategoryTable, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return core.CategoryTable{}, invalidCategories("parse categories: %v", err)
	}
	node := categoriesNode(&root)
	if node == nil {
		return core.CategoryTable{}, invalidCategories("categories file has no categories key")
	}

	var categories []core.Category
	switch node.Kind {
	case yaml.SequenceNode:
		if err := node.Decode(&categories); err != nil {
			return core.CategoryTable{}, invalidCategories("decode categories: %v", err)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			var kws []string
			if err := node.Content[i+1].Decode(&kws); err != nil {
				return core.CategoryTable{}, invalidCategories("category %q: %v", node.Content[i].Value, err)
			}
			categories = append(categories, core.Category{Name: node.Content[i].Value, Keywords: kws})
		}
	default:
		return core.CategoryTable{}, invalidCategories("categories must be a list or a mapping")
	}
	if len(categories) == 0 {
		return core.CategoryTable{}, invalidCategories("categories file defines no categories")
	}
	return core.NewCategoryTable(categories...)
}

func categoriesNode(root *yaml.Node) *yaml.Node {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == "categories" {
			return doc.Content[i+1]
		}
	}
	return nil
}

func invalidCategories(format string, args ...any) error {
	return core.Errorf(core.ModuleInterest, core.ErrorCodeInvalidInput, format, args...)
}

// LoadCategoriesFile 读取并解析类别关键词文件。
func LoadCategoriesFile(path string) (core.CategoryTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.CategoryTable{}, fmt.Errorf("read categories file %s: %w", path, err)
	}
	return ParseCategories(data)
}

// DumpYAML 以 YAML 输出生效配置，API Key 等密钥会被遮盖。
func (c *Config) DumpYAML() ([]byte, error) {
	redacted := *c
	if redacted.Redis.Conn.Password != "" {
		redacted.Redis.Conn.Password = "***"
	}
	if redacted.OpenAI.Client.APIKey != "" {
		redacted.OpenAI.Client.APIKey = "***"
	}
	return yaml.Marshal(&redacted)
}
