package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/profile"
)

// Narrative 总结的文案部分
type Narrative struct {
	OverallPerformance    string   `json:"overall_performance"`
	KeyStrengths          []string `json:"key_strengths"`
	AreasNeedingAttention []string `json:"areas_needing_attention"`
	TeacherHighlights     []string `json:"teacher_highlights"`
}

// Renderer 把选择结果写成文案；文案措辞可替换，选择逻辑不受影响
type Renderer interface {
	Render(ctx context.Context, d *Draft) (*Narrative, error)
}

// TemplateRenderer 确定性的模板文案
type TemplateRenderer struct{}

var _ Renderer = TemplateRenderer{}

// Render implements Renderer
func (TemplateRenderer) Render(_ context.Context, d *Draft) (*Narrative, error) {
	n := &Narrative{OverallPerformance: overall(d)}
	for _, f := range d.Strengths() {
		n.KeyStrengths = append(n.KeyStrengths, fmt.Sprintf(
			"%s: %s. This goes beyond the %s expectation that a learner %s.",
			f.Attribute, strongest(f.Evidence), d.Stage, f.Baseline))
	}
	for _, f := range d.Gaps() {
		n.AreasNeedingAttention = append(n.AreasNeedingAttention, fmt.Sprintf(
			"%s: developing toward the %s expectation that a learner %s; the report does not yet show enough evidence of this.",
			f.Attribute, d.Stage, f.Baseline))
	}
	for _, h := range d.Highlights {
		n.TeacherHighlights = append(n.TeacherHighlights, fmt.Sprintf("%q (%s)", h.Quote, strings.Join(h.Attributes, ", ")))
	}
	return n, nil
}

func overall(d *Draft) string {
	var sb strings.Builder
	if d.Grade.Resolved() {
		fmt.Fprintf(&sb, "Working in grade %s at the %s stage", d.Grade, d.Stage)
	} else {
		fmt.Fprintf(&sb, "Grade could not be determined from the report, so progress is read against %s expectations", d.Stage)
	}
	if d.Term != "" {
		fmt.Fprintf(&sb, " (%s)", d.Term)
	}
	sb.WriteString(". ")

	strengths := d.Strengths()
	switch len(strengths) {
	case 0:
		sb.WriteString("No learner-profile attribute is yet evidenced above the expected baseline")
		// 退而求其次: 达到基线的特质优先，其次是证据参差的特质
		steady := append(d.filter(model.LevelMeeting), d.filter(model.LevelMixed)...)
		switch {
		case len(steady) == 1:
			fmt.Fprintf(&sb, "; %s shows the most consistent evidence so far", steady[0].Attribute)
		case len(steady) > 1:
			fmt.Fprintf(&sb, "; %s and %s show the most consistent evidence so far",
				steady[0].Attribute, steady[1].Attribute)
		}
	case 1:
		fmt.Fprintf(&sb, "%s stands out, evidenced above the expected baseline", strengths[0].Attribute)
	default:
		fmt.Fprintf(&sb, "%s and %s stand out among %d attributes evidenced above the expected baseline",
			strengths[0].Attribute, strengths[1].Attribute, len(strengths))
	}
	if gaps := d.Gaps(); len(gaps) > 0 {
		fmt.Fprintf(&sb, ", while %d attribute(s) still need more evidence", len(gaps))
	}
	sb.WriteString(".")
	return sb.String()
}

// strongest 选出超出标记最多的一句证据
func strongest(evidence []string) string {
	best, bestScore := "", -1
	for _, e := range evidence {
		if score := profile.CountMarkers(e, profile.ExceedMarkers); score > bestScore {
			best, bestScore = e, score
		}
	}
	return strings.TrimSpace(best)
}
