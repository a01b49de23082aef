// Package recommend 将总结中的成长领域与优势映射为排序后的活动推荐。
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/profile"
)

// Engine 推荐引擎，无内部可变状态，可并发使用
type Engine struct {
	catalog      []Template
	perAttribute int
	limit        int
}

// Option 推荐引擎选项
type Option func(*Engine)

// WithCatalog 替换活动目录
func WithCatalog(c []Template) Option { return func(e *Engine) { e.catalog = c } }

// WithPerAttribute 每个特质最多选择的模板数
func WithPerAttribute(n int) Option { return func(e *Engine) { e.perAttribute = n } }

// WithLimit 推荐总数上限，0 表示不限
func WithLimit(n int) Option { return func(e *Engine) { e.limit = n } }

// NewEngine 创建推荐引擎
func NewEngine(opts ...Option) *Engine {
	e := &Engine{catalog: DefaultCatalog, perAttribute: 2}
	for _, o := range opts {
		o(e)
	}
	return e
}

type growth struct {
	attr     string
	priority model.Priority
	order    int
}

type candidate struct {
	rec       model.Recommendation
	attrPrio  map[string]model.Priority
	order     int
	catalogAt int
}

// Recommend 按 High/Medium/Low 排序返回推荐，同名活动只出现一次
func (e *Engine) Recommend(s *model.Summary, g model.Grade) []model.Recommendation {
	if s == nil {
		return []model.Recommendation{}
	}
	stage := profile.StageFor(g, "")

	byName := map[string]*candidate{}
	for _, ga := range growthAreas(s) {
		picked := 0
		for i, t := range e.catalog {
			if picked == e.perAttribute {
				break
			}
			if !t.targets(ga.attr) || !t.eligible(stage) {
				continue
			}
			picked++

			c, ok := byName[t.Name]
			if !ok {
				c = &candidate{
					rec: model.Recommendation{
						Name:          t.Name,
						Category:      t.Category,
						Priority:      ga.priority,
						Frequency:     t.Frequency,
						EstimatedCost: t.EstimatedCost,
						Venues:        []model.Venue{},
					},
					attrPrio:  map[string]model.Priority{},
					order:     ga.order,
					catalogAt: i,
				}
				byName[t.Name] = c
			} else if ga.priority.Rank() < c.rec.Priority.Rank() {
				c.rec.Priority = ga.priority
				c.order = ga.order
			}
			if _, seen := c.attrPrio[ga.attr]; !seen {
				c.rec.TargetAttributes = append(c.rec.TargetAttributes, ga.attr)
			}
			c.attrPrio[ga.attr] = ga.priority
		}
	}

	candidates := make([]*candidate, 0, len(byName))
	for _, c := range byName {
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.rec.Priority.Rank() != b.rec.Priority.Rank() {
			return a.rec.Priority.Rank() < b.rec.Priority.Rank()
		}
		if a.order != b.order {
			return a.order < b.order
		}
		return a.catalogAt < b.catalogAt
	})

	out := make([]model.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		if e.limit > 0 && len(out) == e.limit {
			break
		}
		c.rec.WhyRecommended = why(c, stage)
		out = append(out, c.rec)
	}
	return out
}

// growthAreas 汇总总结中的特质及优先级；同一特质取最高优先级，顺序取首次出现
func growthAreas(s *model.Summary) []growth {
	var seq []growth
	for _, a := range s.Assessments {
		switch a.Level {
		case model.LevelInsufficient:
			seq = append(seq, growth{attr: a.Attribute, priority: model.PriorityHigh})
		case model.LevelMixed:
			seq = append(seq, growth{attr: a.Attribute, priority: model.PriorityMedium})
		case model.LevelExceeding:
			seq = append(seq, growth{attr: a.Attribute, priority: model.PriorityLow})
		}
	}
	// 没有评估结果的旧总结才从文案识别特质，成长领域优先于优势
	if len(s.Assessments) == 0 {
		for _, text := range s.AreasNeedingAttention {
			if attr, ok := attributeFromText(text); ok {
				seq = append(seq, growth{attr: attr, priority: model.PriorityHigh})
			}
		}
		for _, text := range s.KeyStrengths {
			if attr, ok := attributeFromText(text); ok {
				seq = append(seq, growth{attr: attr, priority: model.PriorityLow})
			}
		}
	}

	index := map[string]int{}
	var out []growth
	for _, g := range seq {
		g.attr = profile.Canonical(g.attr)
		key := profile.Key(g.attr)
		if i, ok := index[key]; ok {
			out[i].priority = model.Higher(out[i].priority, g.priority)
			continue
		}
		g.order = len(out)
		index[key] = len(out)
		out = append(out, g)
	}
	return out
}

// attributeFromText 从文案中识别特质：优先取冒号前的名称，否则取最早出现的目录特质
func attributeFromText(text string) (string, bool) {
	if head, _, ok := strings.Cut(text, ":"); ok {
		if a, found := profile.Lookup(head); found {
			return a.Name, true
		}
	}
	lower := strings.ToLower(text)
	best, bestAt := "", -1
	for _, a := range profile.Catalog {
		at := strings.Index(lower, strings.ToLower(a.Name))
		if at >= 0 && (bestAt < 0 || at < bestAt) {
			best, bestAt = a.Name, at
		}
	}
	return best, bestAt >= 0
}

func why(c *candidate, stage profile.Stage) string {
	groups := map[model.Priority][]string{}
	for _, attr := range c.rec.TargetAttributes {
		p := c.attrPrio[attr]
		groups[p] = append(groups[p], attr)
	}

	var parts []string
	if attrs := groups[model.PriorityHigh]; len(attrs) > 0 {
		parts = append(parts, fmt.Sprintf("builds %s, which the report does not yet evidence at the %s stage", joinAnd(attrs), stage))
	}
	if attrs := groups[model.PriorityMedium]; len(attrs) > 0 {
		parts = append(parts, fmt.Sprintf("reinforces %s, where evidence is emerging but mixed", joinAnd(attrs)))
	}
	if attrs := groups[model.PriorityLow]; len(attrs) > 0 {
		parts = append(parts, fmt.Sprintf("keeps %s strong, already evidenced above the expected baseline", joinAnd(attrs)))
	}
	s := strings.Join(parts, "; ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
