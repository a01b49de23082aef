package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/engine"
	"github.com/iWorld-y/progress_insight/app/portal/internal/repo"
	"github.com/iWorld-y/progress_insight/app/portal/internal/service"
	"github.com/iWorld-y/progress_insight/app/portal/internal/usecase"
)

// ProviderSet 是门户服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewRegenerationJob,

	// Engine providers
	NewInsightEngine,
	wire.Bind(new(repo.InsightRepo), new(*engine.Engine)),

	// UseCase providers
	usecase.NewReportUseCase,

	// Service providers
	service.NewInsightService,
)
