package server

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iWorld-y/progress_insight/app/portal/internal/conf"
	"github.com/iWorld-y/progress_insight/app/portal/internal/service"
)

func NewHTTPServer(c *conf.Server, s *service.InsightService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				opts = append(opts, http.Timeout(d))
			}
		}
	}

	srv := http.NewServer(opts...)

	r := srv.Route("/")
	r.GET("/reports/latest", s.LatestReport)
	r.GET("/reports/{id}/recommendations", s.Recommendations)
	r.POST("/reports/{id}/download-pdf", s.DownloadDocument)
	r.POST("/reports/{id}/summary", s.RegenerateSummary)
	r.POST("/summaries/regenerate", s.RegenerateAll)

	srv.Handle("/metrics", promhttp.Handler())

	log.NewHelper(logger).Infof("insight portal routes registered")
	return srv
}
