// Package grade 将报告抽取文本规范化为年级标签。
//
// 规则按顺序执行，命中第一条即返回，后续规则不再参与：
//
//  1. 课程阶段代码 + 阶段数字 (+ 可选班级字母)，如 "EYP 3D" -> "3D"
//  2. 显式标签 "Grade: 5" / "Class 4B" / "Grade: K"，拒绝 "grade level"
//  3. 序数与低龄命名，如 "3rd Grade" -> "3"，"pre-k" -> "Pre-K"
//  4. 兜底: "grade" 紧跟数字，如 "grade #5"
package grade

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
)

// Rule 命中的规则名称
type Rule string

const (
	RuleCurriculumStage Rule = "curriculum_stage"
	RuleExplicitLabel   Rule = "explicit_label"
	RuleOrdinalNamed    Rule = "ordinal_named"
	RuleBareNumber      Rule = "bare_number"
)

// StageCodes 可识别的课程阶段代码
var StageCodes = []string{"EYP", "PYP", "MYP", "DP"}

// Result 解析结果
type Result struct {
	Grade model.Grade
	Rule  Rule
}

type matcher struct {
	rule    Rule
	pattern *regexp.Regexp
	extract func(groups []string) (model.Grade, bool)
}

var cascade = []matcher{
	{
		rule:    RuleCurriculumStage,
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(StageCodes, "|") + `)[\s\-]*(\d{1,2})([a-z])?\b`),
		extract: func(g []string) (model.Grade, bool) {
			return model.Grade(number(g[1]) + strings.ToUpper(g[2])), true
		},
	},
	{
		rule:    RuleExplicitLabel,
		pattern: regexp.MustCompile(`(?i)\b(?:grade|class)(\s*[:\-]\s*|\s+)([a-z0-9][a-z0-9\-]{0,9})\b`),
		extract: labelToken,
	},
	{
		rule:    RuleOrdinalNamed,
		pattern: regexp.MustCompile(`(?i)\b(?:(1[0-2]|[1-9])(?:st|nd|rd|th)[\s\-]+grade|(pre[\s\-]?k(?:indergarten)?)|(kindergarten)|(nursery))\b`),
		extract: func(g []string) (model.Grade, bool) {
			switch {
			case g[1] != "":
				return model.Grade(number(g[1])), true
			case g[2] != "":
				return "Pre-K", true
			case g[3] != "":
				return "Kindergarten", true
			default:
				return "Nursery", true
			}
		},
	},
	{
		rule:    RuleBareNumber,
		pattern: regexp.MustCompile(`(?i)\bgrade\W{0,3}(\d{1,2})\b`),
		extract: func(g []string) (model.Grade, bool) {
			return model.Grade(number(g[1])), true
		},
	},
}

var (
	sectionToken = regexp.MustCompile(`^(\d{1,2})([a-zA-Z])?$`)
	ordinalToken = regexp.MustCompile(`(?i)^(1[0-2]|[1-9])(?:st|nd|rd|th)$`)
	namedLevels  = map[string]model.Grade{
		"prek":             "Pre-K",
		"pre-k":            "Pre-K",
		"prekindergarten":  "Pre-K",
		"pre-kindergarten": "Pre-K",
		"kindergarten":     "Kindergarten",
		"nursery":          "Nursery",
	}
)

// Resolve 按规则顺序解析文本，未命中时返回 false
func Resolve(text string) (Result, bool) {
	for _, m := range cascade {
		for _, groups := range m.pattern.FindAllStringSubmatch(text, -1) {
			if g, ok := m.extract(groups); ok {
				return Result{Grade: g, Rule: m.rule}, true
			}
		}
	}
	return Result{Grade: model.Unresolved}, false
}

// labelToken 处理 "grade/class" 后的短词；带 ":" 或两侧留空的 "-" 分隔时允许不含数字的词
func labelToken(g []string) (model.Grade, bool) {
	sep, tok := g[1], g[2]
	if strings.EqualFold(tok, "level") {
		return model.Unresolved, false
	}
	if named, ok := namedLevels[strings.ToLower(tok)]; ok {
		return named, true
	}
	if m := sectionToken.FindStringSubmatch(tok); m != nil {
		return model.Grade(number(m[1]) + strings.ToUpper(m[2])), true
	}
	if m := ordinalToken.FindStringSubmatch(tok); m != nil {
		return model.Grade(number(m[1])), true
	}
	// 纯数字的长词 (年份等) 不是年级
	if allDigits(tok) {
		return model.Unresolved, false
	}
	if hasDigit(tok) || labelled(sep) {
		return model.Grade(strings.ToUpper(tok)), true
	}
	return model.Unresolved, false
}

// labelled 判断分隔符是否为显式标签: "Grade: K"、"Class - Reception"，不含 "class-based"
func labelled(sep string) bool {
	if strings.Contains(sep, ":") {
		return true
	}
	return strings.Contains(sep, "-") && strings.TrimSpace(sep) != sep
}

func number(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	return strconv.Itoa(n)
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0
}

func allDigits(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) < 0
}
