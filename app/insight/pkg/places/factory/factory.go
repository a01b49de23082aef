package factory

import (
	"fmt"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/config"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/places"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/places/catalog"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/places/nominatim"
)

// NewProvider 根据配置创建场馆提供方
func NewProvider(cfg *config.Config) (places.Provider, error) {
	provider := cfg.Places.Provider
	if provider == "" {
		// 默认回退逻辑：配置了目录文件则使用本地目录
		if cfg.Places.Catalog.File != "" {
			provider = "catalog"
		} else {
			provider = "nominatim"
		}
	}

	switch provider {
	case "nominatim":
		n := cfg.Places.Nominatim
		if n.BaseURL == "" {
			return nil, fmt.Errorf("nominatim base url is missing")
		}
		return nominatim.NewClient(n.BaseURL, n.UserAgent, n.Timeout), nil

	case "catalog":
		if cfg.Places.Catalog.File == "" {
			return nil, fmt.Errorf("venue catalog file is missing")
		}
		return catalog.Load(cfg.Places.Catalog.File)

	default:
		return nil, fmt.Errorf("unknown places provider: %s", provider)
	}
}
