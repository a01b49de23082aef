package service

import (
	nethttp "net/http"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/engine"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
	"github.com/iWorld-y/progress_insight/app/portal/internal/usecase"
)

type InsightService struct {
	uc  *usecase.ReportUseCase
	log *log.Helper
}

func NewInsightService(uc *usecase.ReportUseCase, logger log.Logger) *InsightService {
	return &InsightService{uc: uc, log: log.NewHelper(logger)}
}

// DocumentReq 文档下载请求体
type DocumentReq struct {
	IncludeRecommendations bool     `json:"includeRecommendations"`
	Address                string   `json:"address"`
	CurrentActivities      []string `json:"currentActivities"`
}

// BatchItemReply 批量任务中的失败条目
type BatchItemReply struct {
	ReportID string `json:"reportId"`
	Error    string `json:"error"`
}

// BatchReply 批量任务结果
type BatchReply struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Errors    []BatchItemReply `json:"errors"`
}

// Recommendations GET /reports/{id}/recommendations
func (s *InsightService) Recommendations(ctx http.Context) error {
	id := ctx.Vars().Get("id")
	req, err := recommendRequest(ctx.Query())
	if err != nil {
		return err
	}
	out, err := s.uc.Recommend(ctx, id, req)
	if err != nil {
		return err
	}
	return ctx.Result(nethttp.StatusOK, out)
}

// DownloadDocument POST /reports/{id}/download-pdf
func (s *InsightService) DownloadDocument(ctx http.Context) error {
	var req DocumentReq
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest("MALFORMED_INPUT", err.Error())
	}
	doc, err := s.uc.Document(ctx, ctx.Vars().Get("id"), engine.DocumentRequest{
		IncludeRecommendations: req.IncludeRecommendations,
		Address:                req.Address,
		CurrentActivities:      req.CurrentActivities,
	})
	if err != nil {
		return err
	}
	return ctx.Blob(nethttp.StatusOK, "text/html; charset=utf-8", doc)
}

// RegenerateSummary POST /reports/{id}/summary
func (s *InsightService) RegenerateSummary(ctx http.Context) error {
	sum, err := s.uc.RegenerateSummary(ctx, ctx.Vars().Get("id"))
	if err != nil {
		return err
	}
	return ctx.Result(nethttp.StatusOK, sum)
}

// RegenerateAll POST /summaries/regenerate
func (s *InsightService) RegenerateAll(ctx http.Context) error {
	res, err := s.uc.RegenerateAll(ctx)
	if err != nil {
		return err
	}
	return ctx.Result(nethttp.StatusOK, batchReply(res))
}

// LatestReport GET /reports/latest
func (s *InsightService) LatestReport(ctx http.Context) error {
	r, err := s.uc.Latest(ctx)
	if err != nil {
		return err
	}
	return ctx.Result(nethttp.StatusOK, r)
}

func batchReply(res *engine.BatchResult) *BatchReply {
	reply := &BatchReply{
		Total:     res.Total,
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		Errors:    make([]BatchItemReply, 0, len(res.Errors)),
	}
	for _, e := range res.Errors {
		reply.Errors = append(reply.Errors, BatchItemReply{ReportID: e.ReportID, Error: e.Err.Error()})
	}
	return reply
}

// recommendRequest 解析查询参数；lat 与 lng 必须同时出现
func recommendRequest(q map[string][]string) (engine.RecommendRequest, error) {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	req := engine.RecommendRequest{Anchor: model.Anchor{Address: get("address")}}
	for _, key := range []string{"currentActivities", "currentActivities[]"} {
		for _, a := range q[key] {
			if a = strings.TrimSpace(a); a != "" {
				req.CurrentActivities = append(req.CurrentActivities, a)
			}
		}
	}

	latStr, lngStr := get("lat"), get("lng")
	if latStr == "" && lngStr == "" {
		return req, nil
	}
	if latStr == "" || lngStr == "" {
		return req, errors.BadRequest("MALFORMED_INPUT", "lat and lng must be supplied together")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return req, errors.BadRequest("MALFORMED_INPUT", "invalid lat: "+latStr)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return req, errors.BadRequest("MALFORMED_INPUT", "invalid lng: "+lngStr)
	}
	req.Anchor.Coordinates = &model.Coordinates{Lat: lat, Lng: lng}
	return req, nil
}
