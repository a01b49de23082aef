package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/logger"
)

// Generator 生成式模型的最小能力 (eino ChatModel 满足该接口)
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// LLMRenderer 使用大模型撰写文案，失败时回退到模板文案
type LLMRenderer struct {
	gen        Generator
	limiter    *rate.Limiter
	fallback   Renderer
	maxRetries int
	baseDelay  time.Duration
}

var _ Renderer = (*LLMRenderer)(nil)

// NewLLMRenderer 创建 LLMRenderer
func NewLLMRenderer(gen Generator, limiter *rate.Limiter) *LLMRenderer {
	return &LLMRenderer{
		gen:        gen,
		limiter:    limiter,
		fallback:   TemplateRenderer{},
		maxRetries: 3,
		baseDelay:  2 * time.Second,
	}
}

const narrativePrompt = `You are an experienced primary school teacher writing for parents.
Rewrite the selected findings below as warm, specific prose. Do not add or drop attributes:
write exactly one key_strengths entry per STRENGTH, one areas_needing_attention entry per GAP
and one teacher_highlights entry per HIGHLIGHT, in the given order.
Each strength must name the attribute, cite the evidence and contrast it with the stage baseline.
Each gap must be phrased as "developing toward" the stage baseline.
Return JSON only, no markdown:
{
	"overall_performance": "one paragraph mentioning the grade/stage and 1-2 standout attributes",
	"key_strengths": ["..."],
	"areas_needing_attention": ["..."],
	"teacher_highlights": ["..."]
}

`

// Render implements Renderer
func (r *LLMRenderer) Render(ctx context.Context, d *Draft) (*Narrative, error) {
	n, err := r.generate(ctx, d)
	if err != nil {
		logger.Log.Warnf("大模型文案生成失败，使用模板文案 [%s]: %v", d.ReportID, err)
		return r.fallback.Render(ctx, d)
	}
	return n, nil
}

func (r *LLMRenderer) generate(ctx context.Context, d *Draft) (*Narrative, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: "You are a JSON generator. Output a JSON object only."},
		{Role: schema.User, Content: narrativePrompt + describeDraft(d)},
	}

	var lastErr error
	for i := 0; i <= r.maxRetries; i++ {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := r.gen.Generate(ctx, messages)
		if err != nil {
			if isRateLimited(err) && i < r.maxRetries {
				lastErr = err
				if err := sleep(ctx, r.baseDelay*time.Duration(1<<i)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}

		n, err := parseNarrative(resp.Content, d)
		if err != nil {
			lastErr = err
			continue
		}
		return n, nil
	}
	return nil, fmt.Errorf("failed after retries: %w", lastErr)
}

func describeDraft(d *Draft) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "GRADE: %s\nSTAGE: %s\n", d.Grade, d.Stage)
	for _, f := range d.Strengths() {
		fmt.Fprintf(&sb, "STRENGTH %s | baseline: %s | evidence: %s\n", f.Attribute, f.Baseline, strings.Join(f.Evidence, " / "))
	}
	for _, f := range d.Gaps() {
		fmt.Fprintf(&sb, "GAP %s | baseline: %s\n", f.Attribute, f.Baseline)
	}
	for _, h := range d.Highlights {
		fmt.Fprintf(&sb, "HIGHLIGHT %q | attributes: %s\n", h.Quote, strings.Join(h.Attributes, ", "))
	}
	return sb.String()
}

// parseNarrative 解析模型输出，条目数量必须与选择结果一致
func parseNarrative(content string, d *Draft) (*Narrative, error) {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var n Narrative
	if err := json.Unmarshal([]byte(clean), &n); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if strings.TrimSpace(n.OverallPerformance) == "" {
		return nil, fmt.Errorf("empty overall_performance")
	}
	if len(n.KeyStrengths) != len(d.Strengths()) ||
		len(n.AreasNeedingAttention) != len(d.Gaps()) ||
		len(n.TeacherHighlights) != len(d.Highlights) {
		return nil, fmt.Errorf("narrative does not match selected findings")
	}
	return &n, nil
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
