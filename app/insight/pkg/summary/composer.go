// Package summary 根据报告证据生成结构化总结。
//
// 哪些特质进入优势、哪些进入成长领域由 Analyze 决定，是确定性的；
// 文案由可替换的 Renderer 生成。
package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/logger"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
)

// Composer 总结生成器
type Composer struct {
	renderer Renderer
	now      func() time.Time
}

// NewComposer 创建总结生成器，renderer 为空时使用模板文案
func NewComposer(renderer Renderer) *Composer {
	if renderer == nil {
		renderer = TemplateRenderer{}
	}
	return &Composer{renderer: renderer, now: time.Now}
}

// Compose 生成一份完整的新总结，调用方应整体替换旧总结
func (c *Composer) Compose(ctx context.Context, r *model.Report) (*model.Summary, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	d := Analyze(r)
	for _, f := range d.Gaps() {
		logger.Log.Debugf("特质归入成长领域 [%s]: %v", r.ID, f.Err())
	}
	n, err := c.renderer.Render(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("render narrative: %w", err)
	}

	s := &model.Summary{
		OverallPerformance:    n.OverallPerformance,
		KeyStrengths:          nonNil(n.KeyStrengths),
		AreasNeedingAttention: nonNil(n.AreasNeedingAttention),
		TeacherHighlights:     nonNil(n.TeacherHighlights),
		GeneratedAt:           c.now().UTC(),
	}
	for _, f := range d.Findings {
		s.Assessments = append(s.Assessments, model.AttributeAssessment{
			Attribute: f.Attribute,
			Level:     f.Level,
			Evidence:  f.Evidence,
		})
	}
	return s, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
