package server

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/config"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/engine"
	insightLogger "github.com/iWorld-y/progress_insight/app/insight/pkg/logger"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/storage"
	"github.com/iWorld-y/progress_insight/app/portal/internal/conf"
)

// NewInsightEngine 初始化报告增强引擎
func NewInsightEngine(c *conf.Insight, logger log.Logger) (*engine.Engine, func(), error) {
	helper := log.NewHelper(logger)
	cfg := toConfig(c)

	// 初始化日志
	if err := insightLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init insight logger: %v", err)
		_ = insightLogger.InitLogger("info", "") // 降级处理
	}

	// 初始化存储层，未配置数据库时使用内存存储
	var store engine.Store
	closeStore := func() {}
	if cfg.DB.Host != "" {
		pg, err := storage.NewPostgres(cfg.DB)
		if err != nil {
			helper.Errorf("Failed to init storage for engine: %v", err)
			return nil, nil, err
		}
		store = pg
		closeStore = func() { pg.Close() }
	} else {
		helper.Warn("no database configured, reports are kept in memory")
		store = storage.NewMemory()
	}

	eng, err := engine.NewEngine(cfg, store)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		closeStore()
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("Cleaning up insight engine")
		closeStore()
	}
	return eng, cleanup, nil
}

// toConfig 将 conf.Insight 转换为 config.Config 并填充默认值
func toConfig(c *conf.Insight) *config.Config {
	cfg := &config.Config{}
	if c == nil {
		cfg.ApplyDefaults()
		return cfg
	}
	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{BaseURL: c.Llm.BaseUrl, APIKey: c.Llm.ApiKey, Model: c.Llm.Model}
	}
	if c.Narrative != nil {
		cfg.Narrative.Renderer = c.Narrative.Renderer
	}
	if p := c.Places; p != nil {
		cfg.Places.Provider = p.Provider
		if p.Nominatim != nil {
			cfg.Places.Nominatim = config.NominatimConfig{
				BaseURL:   p.Nominatim.BaseUrl,
				UserAgent: p.Nominatim.UserAgent,
				Timeout:   int(p.Nominatim.Timeout),
			}
		}
		if p.Catalog != nil {
			cfg.Places.Catalog.File = p.Catalog.File
		}
	}
	if v := c.Venues; v != nil {
		cfg.Venues = config.VenueConfig{
			MaxResults:     int(v.MaxResults),
			RadiusKm:       v.RadiusKm,
			TimeoutSeconds: int(v.TimeoutSeconds),
			CacheSize:      int(v.CacheSize),
		}
	}
	if r := c.Recommend; r != nil {
		cfg.Recommend = config.RecommendConfig{PerAttribute: int(r.PerAttribute), Limit: int(r.Limit)}
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}
	if cc := c.Concurrency; cc != nil {
		cfg.Concurrency = config.ConcurrencyConfig{QPS: int(cc.Qps), RPM: int(cc.Rpm), Workers: int(cc.Workers)}
	}
	if d := c.Db; d != nil {
		cfg.DB = config.DBConfig{
			Host:     d.Host,
			Port:     int(d.Port),
			User:     d.User,
			Password: d.Password,
			Name:     d.Name,
		}
	}
	cfg.ApplyDefaults()
	return cfg
}
