package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/config"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/engine"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/logger"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/storage"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "insight",
	Short: "Progress report enrichment toolkit",
	Long: `insight resolves grades, regenerates summaries and prints recommendations
for stored progress reports.

Example usage:
  insight grade report.txt                    # Print the grade found in a text file
  insight ingest report.json                  # Store a report and compose its summary
  insight regenerate --all                    # Regenerate every stored summary
  insight backfill-grades                     # Re-resolve grades of stored reports
  insight recommend <id> --address "..."      # Print recommendations for a report`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "configs/config.yaml", "config file")
}

// initConfig 加载配置并初始化日志；未显式指定且默认文件不存在时使用默认配置
func initConfig(cmd *cobra.Command) error {
	c, err := config.LoadConfig(cfgFile)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		c = &config.Config{}
		c.ApplyDefaults()
		err = nil
	}
	if err != nil {
		return err
	}
	cfg = c
	return logger.InitLogger(cfg.Log.Level, cfg.Log.File)
}

// openEngine 按配置创建引擎；未配置数据库时使用内存存储
func openEngine() (*engine.Engine, func(), error) {
	var store engine.Store
	cleanup := func() {}
	if cfg.DB.Host != "" {
		pg, err := storage.NewPostgres(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		store = pg
		cleanup = func() { pg.Close() }
		logger.Log.Info("已成功连接到数据库")
	} else {
		logger.Log.Info("未配置数据库信息，使用内存存储")
		store = storage.NewMemory()
	}

	e, err := engine.NewEngine(cfg, store)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return e, cleanup, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
