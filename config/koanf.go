package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 是环境变量前缀。层级用双下划线分隔：
//
//	COURSEREC_RECOMMEND__WEIGHTS__POPULARITY=0.3 -> recommend.weights.popularity
//	COURSEREC_REDIS__CONN__ADDR=redis:6379       -> redis.conn.addr
const EnvPrefix = "COURSEREC_"

// ConfigPathEnvVar 指定配置文件路径的环境变量。
const ConfigPathEnvVar = "COURSEREC_CONFIG"

// DefaultConfigPaths 是未显式指定时依次查找的配置文件。
var DefaultConfigPaths = []string{
	"courserec.yaml",
	"courserec.yml",
	"/etc/courserec/config.yaml",
}

// Load 按 默认值 -> 配置文件 -> 环境变量 的顺序加载配置并校验。
// path 为空时依次尝试 COURSEREC_CONFIG 与 DefaultConfigPaths，都不存在则只用默认值与环境变量。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransformFunc: COURSEREC_DATA__PUBLISHED_ONLY -> data.published_only
// 返回空串的变量会被忽略。
func envTransformFunc(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	if key == "" || EnvPrefix+key == ConfigPathEnvVar {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}
