// Package profile 定义学习者特质目录、各课程阶段的基线期望以及证据词表。
package profile

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
)

// Stage 课程阶段
type Stage string

const (
	StageEarlyYears Stage = "early years"
	StagePrimary    Stage = "primary years"
	StageMiddle     Stage = "middle years"
	StageDiploma    Stage = "diploma"
	StageGeneral    Stage = "general"
)

// Attribute 学习者特质
type Attribute struct {
	Name     string
	Keywords []string
	// baselines 依次为 early / primary / secondary 的期望描述
	baselines [3]string
}

// Baseline 返回该阶段的期望描述
func (a Attribute) Baseline(stage Stage) string {
	switch stage {
	case StageEarlyYears:
		return a.baselines[0]
	case StageMiddle, StageDiploma:
		return a.baselines[2]
	default:
		return a.baselines[1]
	}
}

// Catalog 学习者特质目录，顺序即默认展示顺序
var Catalog = []Attribute{
	{
		Name:      "Inquirer",
		Keywords:  []string{"curious", "question", "explor", "investigat", "wonder", "inquir"},
		baselines: [3]string{"shows curiosity and asks simple questions during play", "asks questions and carries out simple investigations with guidance", "plans and conducts independent inquiries"},
	},
	{
		Name:      "Knowledgeable",
		Keywords:  []string{"knowledge", "understand", "facts", "vocabulary", "concept", "recall"},
		baselines: [3]string{"names familiar objects and shares what they know", "recalls key facts and explains concepts in their own words", "connects concepts across subjects"},
	},
	{
		Name:      "Thinker",
		Keywords:  []string{"problem", "solv", "reason", "think", "logic", "strateg", "puzzle"},
		baselines: [3]string{"tries different ways to solve simple problems", "explains the reasoning behind simple solutions", "evaluates strategies and justifies decisions"},
	},
	{
		Name:      "Communicator",
		Keywords:  []string{"communicat", "express", "speak", "present", "listen", "share", "discuss", "writ"},
		baselines: [3]string{"expresses needs and ideas in simple sentences", "shares ideas clearly with peers and adults", "communicates confidently in several modes"},
	},
	{
		Name:      "Principled",
		Keywords:  []string{"honest", "fair", "rule", "responsib", "respect", "integrity"},
		baselines: [3]string{"follows simple class routines and rules", "takes responsibility for their own actions", "acts with integrity and honesty"},
	},
	{
		Name:      "Open-minded",
		Keywords:  []string{"open", "perspective", "cultur", "different", "accept", "divers"},
		baselines: [3]string{"plays alongside children with different ideas", "listens to other points of view", "seeks and evaluates a range of perspectives"},
	},
	{
		Name:      "Caring",
		Keywords:  []string{"kind", "care", "caring", "help", "empath", "compassion", "gentle"},
		baselines: [3]string{"notices when a friend needs help", "shows kindness and helps classmates", "shows empathy and acts to help others"},
	},
	{
		Name:      "Risk-taker",
		Keywords:  []string{"risk", "try new", "tries new", "challenge", "brave", "courage", "attempt"},
		baselines: [3]string{"tries new activities with encouragement", "attempts unfamiliar tasks", "approaches uncertainty with courage"},
	},
	{
		Name:      "Balanced",
		Keywords:  []string{"balance", "physical", "well-being", "wellbeing", "sport", "active", "emotion"},
		baselines: [3]string{"joins in active and quiet play", "balances work, play and rest", "manages intellectual, physical and emotional well-being"},
	},
	{
		Name:      "Reflective",
		Keywords:  []string{"reflect", "improv", "feedback", "goal", "self-assess", "learn from"},
		baselines: [3]string{"talks about what they did and how it went", "identifies what went well and what to improve", "assesses their own strengths and sets goals"},
	},
}

// ExceedMarkers 表示能力超出基线的措辞
var ExceedMarkers = []string{
	"independently", "consistently", "confidently", "exceptional", "excellent",
	"outstanding", "beyond", "leads", "initiative", "sophisticated", "mentors",
	"always", "highly", "advanced", "excels",
}

// DevelopingMarkers 表示仍在发展中的措辞
var DevelopingMarkers = []string{
	"beginning to", "with support", "needs", "developing", "not yet", "rarely",
	"struggles", "working towards", "emerging", "reluctant", "with prompting",
}

// Lookup 按名称查找特质，容忍大小写、连字符与复数
func Lookup(name string) (Attribute, bool) {
	key := Key(name)
	for _, a := range Catalog {
		if Key(a.Name) == key {
			return a, true
		}
	}
	return Attribute{}, false
}

// Canonical 返回目录中的规范名称，未知特质原样返回
func Canonical(name string) string {
	if a, ok := Lookup(name); ok {
		return a.Name
	}
	return strings.TrimSpace(name)
}

// Key 特质名称的比较键
func Key(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) {
			sb.WriteRune(r)
		}
	}
	return strings.TrimSuffix(sb.String(), "s")
}

// Generic 为目录外的特质生成通用基线
func Generic(name string) Attribute {
	phrase := "demonstrates " + strings.ToLower(name) + " at the level typical for the stage"
	return Attribute{Name: name, baselines: [3]string{phrase, phrase, phrase}}
}

// StageFor 根据年级与报告类型推断课程阶段；报告类型中的阶段代码优先
func StageFor(g model.Grade, reportType string) Stage {
	rt := strings.ToUpper(reportType)
	switch {
	case strings.Contains(rt, "EYP"):
		return StageEarlyYears
	case strings.Contains(rt, "PYP"):
		return StagePrimary
	case strings.Contains(rt, "MYP"):
		return StageMiddle
	case strings.Contains(rt, "DP"):
		return StageDiploma
	}

	switch g {
	case "Pre-K", "Nursery", "Kindergarten":
		return StageEarlyYears
	}
	n, ok := leadingNumber(string(g))
	if !ok {
		return StageGeneral
	}
	switch {
	case n <= 5:
		return StagePrimary
	case n <= 10:
		return StageMiddle
	default:
		return StageDiploma
	}
}

func leadingNumber(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

// Mentions 返回文本中提及的目录特质
func Mentions(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, a := range Catalog {
		if containsAny(lower, a.Keywords) {
			out = append(out, a.Name)
		}
	}
	return out
}

// CountMarkers 统计文本中出现的标记词数量
func CountMarkers(text string, markers []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, m := range markers {
		n += strings.Count(lower, m)
	}
	return n
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
