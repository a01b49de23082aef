package usecase

import (
	"bytes"
	"context"
	stderrors "errors"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/engine"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
	"github.com/iWorld-y/progress_insight/app/portal/internal/repo"
)

// ReportUseCase 报告业务逻辑
type ReportUseCase struct {
	repo repo.InsightRepo
	log  *log.Helper
}

// NewReportUseCase 创建报告业务逻辑实例
func NewReportUseCase(repo repo.InsightRepo, logger log.Logger) *ReportUseCase {
	return &ReportUseCase{repo: repo, log: log.NewHelper(logger)}
}

// Recommend 获取报告的推荐结果
func (uc *ReportUseCase) Recommend(ctx context.Context, id string, req engine.RecommendRequest) (*engine.Enrichment, error) {
	out, err := uc.repo.Recommend(ctx, id, req)
	if err != nil {
		return nil, uc.mapError(id, err)
	}
	return out, nil
}

// Document 渲染报告文档
func (uc *ReportUseCase) Document(ctx context.Context, id string, req engine.DocumentRequest) ([]byte, error) {
	var buf bytes.Buffer
	if err := uc.repo.RenderDocument(ctx, id, req, &buf); err != nil {
		return nil, uc.mapError(id, err)
	}
	return buf.Bytes(), nil
}

// RegenerateSummary 重新生成单份总结
func (uc *ReportUseCase) RegenerateSummary(ctx context.Context, id string) (*model.Summary, error) {
	s, err := uc.repo.RegenerateSummary(ctx, id)
	if err != nil {
		return nil, uc.mapError(id, err)
	}
	return s, nil
}

// RegenerateAll 重新生成全部总结，单条失败记录在结果中
func (uc *ReportUseCase) RegenerateAll(ctx context.Context) (*engine.BatchResult, error) {
	res, err := uc.repo.RegenerateAll(ctx)
	if err != nil {
		return nil, uc.mapError("", err)
	}
	if res.Failed > 0 {
		uc.log.WithContext(ctx).Warnf("batch regeneration finished with %d failures", res.Failed)
	}
	return res, nil
}

// Latest 获取最新报告
func (uc *ReportUseCase) Latest(ctx context.Context) (*model.Report, error) {
	r, err := uc.repo.LatestReport(ctx)
	if err != nil {
		return nil, uc.mapError("latest", err)
	}
	return r, nil
}

// mapError 将领域错误转换为 kratos 错误
func (uc *ReportUseCase) mapError(id string, err error) error {
	switch {
	case stderrors.Is(err, model.ErrReportNotFound):
		return errors.NotFound("REPORT_NOT_FOUND", "report not found: "+id)
	case stderrors.Is(err, model.ErrMalformedInput):
		return errors.BadRequest("MALFORMED_INPUT", err.Error())
	default:
		uc.log.Errorf("report %s: %v", id, err)
		return errors.InternalServer("INTERNAL", "internal error")
	}
}
