// Package config 加载与校验课程推荐服务的配置。
//
// 配置分三层叠加：结构体默认值 -> YAML 文件 -> 环境变量（前缀 COURSEREC_）。
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/embed"
	"github.com/rushteam/courserec/index"
	"github.com/rushteam/courserec/interest"
	"github.com/rushteam/courserec/loader"
	"github.com/rushteam/courserec/store"
)

// Config 是服务的完整配置。
type Config struct {
	Log       LogConfig       `koanf:"log" yaml:"log"`
	Recommend RecommendConfig `koanf:"recommend" yaml:"recommend"`
	Index     IndexConfig     `koanf:"index" yaml:"index"`
	Data      DataConfig      `koanf:"data" yaml:"data"`
	Redis     RedisConfig     `koanf:"redis" yaml:"redis"`
	Feast     FeastConfig     `koanf:"feast" yaml:"feast"`
	OpenAI    OpenAIConfig    `koanf:"openai" yaml:"openai"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"` // json / console
}

// RecommendConfig 推荐算法参数。
type RecommendConfig struct {
	MaxCandidates       int                `koanf:"max_candidates" yaml:"max_candidates"`
	DefaultTopK         int                `koanf:"default_top_k" yaml:"default_top_k"`
	Weights             core.FusionWeights `koanf:"weights" yaml:"weights"`
	ActivityWeights     map[string]float64 `koanf:"activity_weights" yaml:"activity_weights"`
	ProgressBoost       bool               `koanf:"progress_boost" yaml:"progress_boost"`
	NormalizeUserVector bool               `koanf:"normalize_user_vector" yaml:"normalize_user_vector"`
	PopularityMode      string             `koanf:"popularity_mode" yaml:"popularity_mode"`
	// ExcludeExpr 是 CEL 表达式，为 true 的候选被排除
	ExcludeExpr string `koanf:"exclude_expr" yaml:"exclude_expr"`
	// CategoriesFile 是类别关键词 YAML 文件；为空时使用 Categories 或内置类别表
	CategoriesFile string          `koanf:"categories_file" yaml:"categories_file"`
	Categories     []core.Category `koanf:"categories" yaml:"categories,omitempty"`
}

// IndexConfig 近邻索引配置。
type IndexConfig struct {
	Metric string `koanf:"metric" yaml:"metric"`
}

// DataConfig 数据源配置。SQLite 非空时优先于 Dir。
type DataConfig struct {
	Dir           string `koanf:"dir" yaml:"dir"`
	SQLite        string `koanf:"sqlite" yaml:"sqlite"`
	// PublishedOnly 只决定加载时是否裁掉未发布课程，推荐结果总是排除未发布课程
	PublishedOnly bool   `koanf:"published_only" yaml:"published_only"`
}

// RedisConfig 启用后行为日志与课程热度从 Redis 读取。
type RedisConfig struct {
	Enabled           bool              `koanf:"enabled" yaml:"enabled"`
	Conn              store.RedisConfig `koanf:"conn" yaml:"conn"`
	ActivityKeyPrefix string            `koanf:"activity_key_prefix" yaml:"activity_key_prefix"`
	PopularityKey     string            `koanf:"popularity_key" yaml:"popularity_key"`
}

// FeastConfig 启用后课程热度从 Feast 在线特征读取。
type FeastConfig struct {
	Enabled bool               `koanf:"enabled" yaml:"enabled"`
	Serving loader.FeastConfig `koanf:"serving" yaml:"serving"`
}

// OpenAIConfig 启用后内容相似度的锚点文本通过 OpenAI 向量化；否则使用预计算向量。
type OpenAIConfig struct {
	Enabled bool               `koanf:"enabled" yaml:"enabled"`
	Client  embed.OpenAIConfig `koanf:"client" yaml:"client"`
}

// Default 返回默认配置。
func Default() *Config {
	weights := core.DefaultActivityWeights()
	activity := make(map[string]float64, len(weights))
	for t, w := range weights {
		activity[string(t)] = w
	}
	return &Config{
		Log: LogConfig{Level: "info", Format: "console"},
		Recommend: RecommendConfig{
			MaxCandidates:   core.DefaultMaxCandidates,
			DefaultTopK:     core.DefaultTopK,
			Weights:         core.DefaultFusionWeights(),
			ActivityWeights: activity,
			PopularityMode:  string(core.PopularityBlend),
		},
		Index: IndexConfig{Metric: string(index.MetricL2)},
		Data:  DataConfig{Dir: "data"},
		Redis: RedisConfig{
			Conn:              store.RedisConfig{Addr: "localhost:6379"},
			ActivityKeyPrefix: loader.DefaultActivityKeyPrefix,
			PopularityKey:     loader.DefaultPopularityKey,
		},
		Feast: FeastConfig{Serving: loader.DefaultFeastConfig()},
		OpenAI: OpenAIConfig{Client: embed.OpenAIConfig{
			Model:      string(embed.DefaultModel),
			MaxRetries: embed.DefaultMaxRetries,
			RetryDelay: embed.DefaultRetryDelay,
		}},
	}
}

// Validate 校验配置，返回所有问题的合并错误。
func (c *Config) Validate() error {
	var errs []error
	r := c.Recommend
	if err := r.Weights.Validate(); err != nil {
		errs = append(errs, err)
	}
	if r.MaxCandidates <= 0 {
		errs = append(errs, fmt.Errorf("recommend.max_candidates must be positive, got %d", r.MaxCandidates))
	}
	if r.DefaultTopK <= 0 {
		errs = append(errs, fmt.Errorf("recommend.default_top_k must be positive, got %d", r.DefaultTopK))
	}
	if !core.PopularityMode(r.PopularityMode).Valid() {
		errs = append(errs, fmt.Errorf("recommend.popularity_mode must be blend or simple, got %q", r.PopularityMode))
	}
	if err := c.ActivityWeights().Validate(); err != nil {
		errs = append(errs, err)
	}
	if !index.Metric(c.Index.Metric).Valid() {
		errs = append(errs, fmt.Errorf("index.metric must be l2 or inner_product, got %q", c.Index.Metric))
	}
	if c.Data.Dir == "" && c.Data.SQLite == "" {
		errs = append(errs, errors.New("one of data.dir or data.sqlite is required"))
	}
	if c.Feast.Enabled && c.Feast.Serving.Host == "" {
		errs = append(errs, errors.New("feast.serving.host is required when feast is enabled"))
	}
	if c.OpenAI.Enabled && c.OpenAI.Client.APIKey == "" {
		errs = append(errs, errors.New("openai.client.api_key is required when openai is enabled"))
	}
	return errors.Join(errs...)
}

// ActivityWeights 把配置中的行为权重转为领域类型。
func (c *Config) ActivityWeights() core.ActivityWeights {
	out := make(core.ActivityWeights, len(c.Recommend.ActivityWeights))
	for t, w := range c.Recommend.ActivityWeights {
		out[core.ActivityType(strings.ToLower(strings.TrimSpace(t)))] = w
	}
	return out
}

// InterestConfig 返回兴趣模型配置。
func (c *Config) InterestConfig() core.InterestConfig {
	return core.InterestConfig{
		Weights:         c.ActivityWeights(),
		ProgressBoost:   c.Recommend.ProgressBoost,
		NormalizeVector: c.Recommend.NormalizeUserVector,
	}
}

// CategoryTable 按优先级返回类别表：CategoriesFile > Categories > 内置类别表。
func (c *Config) CategoryTable() (core.CategoryTable, error) {
	switch {
	case c.Recommend.CategoriesFile != "":
		return LoadCategoriesFile(c.Recommend.CategoriesFile)
	case len(c.Recommend.Categories) > 0:
		return core.NewCategoryTable(c.Recommend.Categories...)
	default:
		return interest.DefaultCategories(), nil
	}
}
