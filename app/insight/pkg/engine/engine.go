// Package engine 串联报告增强流水线：入库时解析年级，重新生成总结，
// 按需计算推荐、场馆与家长行动，并渲染下载文档。
package engine

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/config"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/document"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/grade"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/logger"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/metrics"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/places/factory"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/planner"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/recommend"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/summary"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/venue"
)

// Store 报告持久化能力
type Store interface {
	SaveReport(ctx context.Context, r *model.Report) error
	GetReport(ctx context.Context, id string) (*model.Report, error)
	LatestReport(ctx context.Context) (*model.Report, error)
	ListReportIDs(ctx context.Context) ([]string, error)
	UpdateGrade(ctx context.Context, id string, g model.Grade) error
	SaveSummary(ctx context.Context, id string, s *model.Summary) error
}

// Engine 核心处理引擎
type Engine struct {
	store       Store
	composer    *summary.Composer
	recommender *recommend.Engine
	matcher     *venue.Matcher
	workers     int
	now         func() time.Time
}

// Option 引擎选项
type Option func(*Engine)

// WithMatcher 启用场馆匹配
func WithMatcher(m *venue.Matcher) Option { return func(e *Engine) { e.matcher = m } }

// WithWorkers 批量任务并发数
func WithWorkers(n int) Option { return func(e *Engine) { e.workers = n } }

// WithClock 替换时钟
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// New 组装引擎
func New(store Store, composer *summary.Composer, recommender *recommend.Engine, opts ...Option) *Engine {
	if composer == nil {
		composer = summary.NewComposer(nil)
	}
	if recommender == nil {
		recommender = recommend.NewEngine()
	}
	e := &Engine{
		store:       store,
		composer:    composer,
		recommender: recommender,
		workers:     4,
		now:         time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// NewEngine 根据配置创建引擎实例
func NewEngine(cfg *config.Config, store Store) (*Engine, error) {
	ctx := context.Background()

	// 初始化限流器
	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	burst := cfg.Concurrency.QPS
	limiter := rate.NewLimiter(limit, burst)

	var renderer summary.Renderer = summary.TemplateRenderer{}
	if cfg.Narrative.Renderer == "llm" {
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("LLM 初始化失败: %w", err)
		}
		renderer = summary.NewLLMRenderer(chatModel, limiter)
	}

	provider, err := factory.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("场馆提供方初始化失败: %w", err)
	}
	matcher, err := venue.NewMatcher(provider, cfg.Venues.CacheSize,
		venue.WithMaxResults(cfg.Venues.MaxResults),
		venue.WithRadius(cfg.Venues.RadiusKm),
		venue.WithTimeout(cfg.Venues.Timeout()),
		venue.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Concurrency.QPS), 1)),
		venue.WithWorkers(cfg.Concurrency.Workers),
	)
	if err != nil {
		return nil, err
	}

	recommender := recommend.NewEngine(
		recommend.WithPerAttribute(cfg.Recommend.PerAttribute),
		recommend.WithLimit(cfg.Recommend.Limit),
	)

	return New(store, summary.NewComposer(renderer), recommender,
		WithMatcher(matcher),
		WithWorkers(cfg.Concurrency.Workers),
	), nil
}

// ResolveGrade 解析年级并记录指标，未解析时返回 Unresolved
func ResolveGrade(text string) model.Grade {
	res, ok := grade.Resolve(text)
	metrics.RecordGrade(string(res.Rule))
	if !ok {
		return model.Unresolved
	}
	return res.Grade
}

// Ingest 入库一份新报告：补全 ID 与时间，解析年级，校验并生成首份总结
func (e *Engine) Ingest(ctx context.Context, r *model.Report) (*model.Report, error) {
	if r == nil {
		return nil, &model.MalformedInputError{Fields: []string{"report"}}
	}
	if strings.TrimSpace(r.ID) == "" {
		r.ID = uuid.NewString()
	}
	if r.SchemaVersion == 0 {
		r.SchemaVersion = model.CurrentSchemaVersion
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = e.now().UTC()
	}

	r.Grade = ResolveGrade(r.ExtractedText)
	if !r.Grade.Resolved() {
		logger.Log.WithField("report", r.ID).Warnf("年级未能解析: %v", model.ErrUnresolvedGrade)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	s, err := e.composer.Compose(ctx, r)
	if err != nil {
		return nil, err
	}
	r.Summary = s
	metrics.RecordSummary("success")

	if err := e.store.SaveReport(ctx, r); err != nil {
		return nil, err
	}
	logger.Log.Infof("报告 [%s] 已入库，年级: %s", r.ID, r.Grade)
	return r, nil
}

// GetReport 读取报告
func (e *Engine) GetReport(ctx context.Context, id string) (*model.Report, error) {
	return e.store.GetReport(ctx, id)
}

// LatestReport 读取最新报告
func (e *Engine) LatestReport(ctx context.Context) (*model.Report, error) {
	return e.store.LatestReport(ctx)
}

// RegenerateSummary 从头生成总结并整体覆盖，重试安全
func (e *Engine) RegenerateSummary(ctx context.Context, id string) (*model.Summary, error) {
	r, err := e.store.GetReport(ctx, id)
	if err != nil {
		metrics.RecordSummary("failure")
		return nil, err
	}
	s, err := e.composer.Compose(ctx, r)
	if err != nil {
		metrics.RecordSummary("failure")
		return nil, err
	}
	if err := e.store.SaveSummary(ctx, id, s); err != nil {
		metrics.RecordSummary("failure")
		return nil, err
	}
	metrics.RecordSummary("success")
	return s, nil
}

// RecommendRequest 推荐请求参数
type RecommendRequest struct {
	Anchor            model.Anchor
	CurrentActivities []string
}

// Enrichment 推荐接口的响应
type Enrichment struct {
	Location        model.Location         `json:"location"`
	Recommendations []model.Recommendation `json:"recommendations"`
	ParentActions   []model.ParentAction   `json:"parentActions"`
}

// Recommend 计算推荐、场馆与家长行动；结果不落库
func (e *Engine) Recommend(ctx context.Context, id string, req RecommendRequest) (*Enrichment, error) {
	r, err := e.store.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.enrich(ctx, r, req)
}

func (e *Engine) enrich(ctx context.Context, r *model.Report, req RecommendRequest) (*Enrichment, error) {
	s := r.Summary
	if s == nil {
		// 尚未生成总结的报告临时计算一份，不写回存储
		composed, err := e.composer.Compose(ctx, r)
		if err != nil {
			return nil, err
		}
		s = composed
	}

	recs := e.recommender.Recommend(s, r.Grade)
	loc := model.Location{Address: req.Anchor.Address}
	if e.matcher != nil {
		recs, loc = e.matcher.Enrich(ctx, recs, req.Anchor)
	}
	if req.Anchor.Coordinates != nil && !loc.Resolved {
		lat, lng := req.Anchor.Coordinates.Lat, req.Anchor.Coordinates.Lng
		loc.Lat, loc.Lng = &lat, &lng
	}

	return &Enrichment{
		Location:        loc,
		Recommendations: recs,
		ParentActions:   planner.Plan(recs, req.CurrentActivities),
	}, nil
}

// DocumentRequest 文档下载参数
type DocumentRequest struct {
	IncludeRecommendations bool
	Address                string
	CurrentActivities      []string
}

// RenderDocument 渲染报告文档
func (e *Engine) RenderDocument(ctx context.Context, id string, req DocumentRequest, w io.Writer) error {
	r, err := e.store.GetReport(ctx, id)
	if err != nil {
		return err
	}

	data := document.Data{Report: r, IncludeRecommendations: req.IncludeRecommendations, GeneratedAt: e.now()}
	if req.IncludeRecommendations {
		en, err := e.enrich(ctx, r, RecommendRequest{
			Anchor:            model.Anchor{Address: strings.TrimSpace(req.Address)},
			CurrentActivities: req.CurrentActivities,
		})
		if err != nil {
			return err
		}
		data.Location = &en.Location
		data.Recommendations = en.Recommendations
		data.ParentActions = en.ParentActions
	}
	return document.Render(w, data)
}
