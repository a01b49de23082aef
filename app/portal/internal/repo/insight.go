package repo

import (
	"context"
	"io"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/engine"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
)

// InsightRepo 报告增强能力接口
type InsightRepo interface {
	// Recommend 计算推荐、场馆与家长行动
	Recommend(ctx context.Context, id string, req engine.RecommendRequest) (*engine.Enrichment, error)
	// RenderDocument 渲染下载文档
	RenderDocument(ctx context.Context, id string, req engine.DocumentRequest, w io.Writer) error
	// RegenerateSummary 重新生成单份总结
	RegenerateSummary(ctx context.Context, id string) (*model.Summary, error)
	// RegenerateAll 重新生成全部总结
	RegenerateAll(ctx context.Context) (*engine.BatchResult, error)
	// LatestReport 获取最新报告
	LatestReport(ctx context.Context) (*model.Report, error)
}
