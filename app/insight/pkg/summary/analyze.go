package summary

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/profile"
)

// MinEvidenceWords 少于该词数的证据视为不足
const MinEvidenceWords = 4

// MaxHighlights 教师亮点最多条数
const MaxHighlights = 5

// Finding 单个特质的选择结果
type Finding struct {
	Attribute string
	Level     model.AttributeLevel
	Evidence  []string
	Baseline  string
}

// Err 证据不足时返回包装 ErrEvidenceInsufficient 的错误，否则为 nil
func (f Finding) Err() error {
	if f.Level != model.LevelInsufficient {
		return nil
	}
	return fmt.Errorf("%s: %w", f.Attribute, model.ErrEvidenceInsufficient)
}

// Highlight 可引用的行为观察及其体现的特质
type Highlight struct {
	Quote      string
	Attributes []string
}

// Draft 交给文案渲染器的结构化选择结果
type Draft struct {
	ReportID   string
	StudentID  string
	Grade      model.Grade
	Stage      profile.Stage
	Term       string
	Findings   []Finding
	Highlights []Highlight
}

// Strengths 超出基线的特质
func (d *Draft) Strengths() []Finding { return d.filter(model.LevelExceeding) }

// Gaps 证据缺失或不足的特质
func (d *Draft) Gaps() []Finding { return d.filter(model.LevelInsufficient) }

func (d *Draft) filter(level model.AttributeLevel) []Finding {
	var out []Finding
	for _, f := range d.Findings {
		if f.Level == level {
			out = append(out, f)
		}
	}
	return out
}

var sentenceSplit = regexp.MustCompile(`[.!?]+(\s+|$)|\n+`)

// Analyze 从报告证据中选择优势与成长领域，纯函数，结果只取决于输入
func Analyze(r *model.Report) *Draft {
	d := &Draft{
		ReportID:  r.ID,
		StudentID: r.StudentID,
		Grade:     r.Grade,
		Stage:     profile.StageFor(r.Grade, r.ReportType),
		Term:      r.Term,
	}

	commentary := commentarySentences(r)
	for _, attr := range attributeOrder(r) {
		evidence := evidenceFor(r, attr, commentary)
		d.Findings = append(d.Findings, Finding{
			Attribute: attr.Name,
			Level:     classify(evidence),
			Evidence:  evidence,
			Baseline:  attr.Baseline(d.Stage),
		})
	}
	d.Highlights = highlights(r, commentary)
	return d
}

// attributeOrder 报告中出现的特质在前，其余目录特质按目录顺序补齐
func attributeOrder(r *model.Report) []profile.Attribute {
	seen := map[string]bool{}
	var out []profile.Attribute
	for _, e := range r.LearnerProfile {
		key := profile.Key(e.Attribute)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if a, ok := profile.Lookup(e.Attribute); ok {
			out = append(out, a)
		} else {
			out = append(out, profile.Generic(strings.TrimSpace(e.Attribute)))
		}
	}
	for _, a := range profile.Catalog {
		if !seen[profile.Key(a.Name)] {
			out = append(out, a)
		}
	}
	return out
}

// commentarySentences 教师评语与技能指标拆分成句子
func commentarySentences(r *model.Report) []string {
	var out []string
	out = append(out, splitSentences(r.TeacherComments)...)
	for _, s := range r.SubjectAreas {
		for _, sk := range s.Skills {
			if strings.TrimSpace(sk.Indicator) == "" {
				continue
			}
			out = append(out, strings.TrimSpace(sk.SkillName+": "+sk.Indicator))
		}
	}
	return out
}

func evidenceFor(r *model.Report, attr profile.Attribute, commentary []string) []string {
	key := profile.Key(attr.Name)
	var out []string
	for _, e := range r.LearnerProfile {
		if profile.Key(e.Attribute) == key {
			out = append(out, splitSentences(e.Evidence)...)
		}
	}
	for _, s := range commentary {
		if mentions(s, attr) {
			out = append(out, s)
		}
	}
	return out
}

func mentions(s string, attr profile.Attribute) bool {
	lower := strings.ToLower(s)
	for _, k := range attr.Keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// classify 证据缺失或过短为不足；超出标记与发展标记决定其余等级
func classify(evidence []string) model.AttributeLevel {
	words := 0
	for _, e := range evidence {
		words += len(strings.Fields(e))
	}
	if words < MinEvidenceWords {
		return model.LevelInsufficient
	}

	text := strings.Join(evidence, " ")
	exceed := profile.CountMarkers(text, profile.ExceedMarkers)
	developing := profile.CountMarkers(text, profile.DevelopingMarkers)
	switch {
	case exceed > 0 && developing == 0:
		return model.LevelExceeding
	case developing > 0:
		return model.LevelMixed
	default:
		return model.LevelMeeting
	}
}

func highlights(r *model.Report, commentary []string) []Highlight {
	type candidate struct {
		quote string
		attrs []string
	}
	var candidates []candidate
	for _, e := range r.LearnerProfile {
		for _, s := range splitSentences(e.Evidence) {
			attrs := appendUnique([]string{profile.Canonical(e.Attribute)}, profile.Mentions(s)...)
			candidates = append(candidates, candidate{quote: s, attrs: attrs})
		}
	}
	for _, s := range commentary {
		candidates = append(candidates, candidate{quote: s, attrs: profile.Mentions(s)})
	}

	seen := map[string]bool{}
	var out []Highlight
	for _, c := range candidates {
		if len(out) == MaxHighlights {
			break
		}
		key := strings.ToLower(c.quote)
		if seen[key] || len(c.attrs) == 0 || len(strings.Fields(c.quote)) < MinEvidenceWords {
			continue
		}
		// 只引用体现能力的观察，发展中的描述不作为亮点
		if profile.CountMarkers(c.quote, profile.DevelopingMarkers) > 0 {
			continue
		}
		seen[key] = true
		out = append(out, Highlight{Quote: c.quote, Attributes: c.attrs})
	}
	return out
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceSplit.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func appendUnique(dst []string, items ...string) []string {
	for _, it := range items {
		dup := false
		for _, d := range dst {
			if d == it {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, it)
		}
	}
	return dst
}
