package main

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/courserec/config"
)

// globalFlags 是所有子命令共享的参数，命令行显式给出时覆盖配置文件与环境变量。
type globalFlags struct {
	configPath string
	dataDir    string
	sqlitePath string
	redisAddr  string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "courserec",
		Short: "Hybrid course recommendation engine",
		Long: `courserec recommends courses to a learner by blending embedding similarity
to their activity history, similarity to their latest strong-intent course,
and course popularity.

Configuration is layered: built-in defaults, then a YAML file
(--config, $COURSEREC_CONFIG or ./courserec.yaml), then COURSEREC_* environment
variables, then command-line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to YAML config file")
	pf.StringVar(&flags.dataDir, "data", "", "Directory with courses.json, embeddings.json, popularity.json and activity/")
	pf.StringVar(&flags.sqlitePath, "sqlite", "", "SQLite database to load data from (overrides --data)")
	pf.StringVar(&flags.redisAddr, "redis", "", "Redis address for activity logs and popularity")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(newRecommendCmd(flags), newConfigCmd(flags))
	return cmd
}

// loadConfig 加载配置并应用命令行覆盖。
func (f *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.dataDir != "" {
		cfg.Data.Dir = f.dataDir
	}
	if f.sqlitePath != "" {
		cfg.Data.SQLite = f.sqlitePath
	}
	if f.redisAddr != "" {
		cfg.Redis.Enabled = true
		cfg.Redis.Conn.Addr = f.redisAddr
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	return cfg, cfg.Validate()
}
