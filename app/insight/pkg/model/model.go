package model

import (
	"encoding/json"
	"time"
)

// CurrentSchemaVersion 当前报告记录版本
const CurrentSchemaVersion = 1

// Grade 规范化年级标签，空值表示未解析
type Grade string

// Unresolved 显式的未解析标记，不允许用占位值代替
const Unresolved Grade = ""

// Resolved 是否已解析出规范年级
func (g Grade) Resolved() bool { return g != Unresolved }

func (g Grade) String() string {
	if !g.Resolved() {
		return "unresolved"
	}
	return string(g)
}

// MarshalJSON 未解析的年级输出为 null
func (g Grade) MarshalJSON() ([]byte, error) {
	if !g.Resolved() {
		return []byte("null"), nil
	}
	return json.Marshal(string(g))
}

// UnmarshalJSON null 解析为 Unresolved
func (g *Grade) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*g = Unresolved
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*g = Grade(s)
	return nil
}

// Skill 学科下的单项技能及评价指标
type Skill struct {
	SkillName string `json:"skillName"`
	Indicator string `json:"indicator"`
}

// SubjectArea 学科领域
type SubjectArea struct {
	SubjectName string  `json:"subjectName"`
	EffortGrade string  `json:"effortGrade,omitempty"`
	Skills      []Skill `json:"skills"`
}

// AttributeEvidence 学习者特质及其证据描述
type AttributeEvidence struct {
	Attribute string `json:"attribute"`
	Evidence  string `json:"evidence"`
}

// Report 成长报告
type Report struct {
	ID              string              `json:"id"`
	StudentID       string              `json:"studentId"`
	ExtractedText   string              `json:"extractedText"`
	Grade           Grade               `json:"grade"`
	ReportType      string              `json:"reportType,omitempty"`
	Term            string              `json:"term,omitempty"`
	SubjectAreas    []SubjectArea       `json:"subjectAreas"`
	LearnerProfile  []AttributeEvidence `json:"learnerProfileAttributes"`
	TeacherComments string              `json:"teacherComments,omitempty"`
	Summary         *Summary            `json:"summary,omitempty"`
	SchemaVersion   int                 `json:"schemaVersion"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// AttributeLevel 特质证据评估等级
type AttributeLevel string

const (
	LevelExceeding    AttributeLevel = "exceeding"
	LevelMeeting      AttributeLevel = "meeting"
	LevelMixed        AttributeLevel = "mixed"
	LevelInsufficient AttributeLevel = "insufficient"
)

// AttributeAssessment 单个特质的评估结果
type AttributeAssessment struct {
	Attribute string         `json:"attribute"`
	Level     AttributeLevel `json:"level"`
	Evidence  []string       `json:"evidence,omitempty"`
}

// Summary 报告总结，归属于唯一的 Report，重新生成时整体覆盖
type Summary struct {
	OverallPerformance    string                `json:"overallPerformance"`
	KeyStrengths          []string              `json:"keyStrengths"`
	AreasNeedingAttention []string              `json:"areasNeedingAttention"`
	TeacherHighlights     []string              `json:"teacherHighlights"`
	Assessments           []AttributeAssessment `json:"assessments,omitempty"`
	GeneratedAt           time.Time             `json:"generatedAt"`
}

// AttributesAt 返回指定等级的特质，保持原有顺序
func (s *Summary) AttributesAt(level AttributeLevel) []string {
	var out []string
	for _, a := range s.Assessments {
		if a.Level == level {
			out = append(out, a.Attribute)
		}
	}
	return out
}

// Priority 推荐优先级
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rank 数值越小优先级越高
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Higher 返回两者中优先级更高的一个
func Higher(a, b Priority) Priority {
	if b.Rank() < a.Rank() {
		return b
	}
	return a
}

// Distance 距离
type Distance struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Venue 场馆，每次请求临时计算，不落库
type Venue struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Distance Distance `json:"distance"`
	Rating   *float64 `json:"rating"`
}

// Recommendation 发展活动推荐
type Recommendation struct {
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Priority         Priority `json:"priority"`
	TargetAttributes []string `json:"targetAttributes"`
	WhyRecommended   string   `json:"whyRecommended"`
	Frequency        string   `json:"frequency"`
	EstimatedCost    string   `json:"estimatedCost"`
	Venues           []Venue  `json:"venues"`
}

// ActionActivity 家长行动中的具体活动及分步建议
type ActionActivity struct {
	Activity string   `json:"activity"`
	Tips     []string `json:"tips"`
}

// ParentAction 面向家长的行动项
type ParentAction struct {
	Title       string           `json:"title"`
	Category    string           `json:"category"`
	TargetArea  string           `json:"targetArea"`
	Priority    Priority         `json:"priority"`
	Description string           `json:"description"`
	Activities  []ActionActivity `json:"activities"`
}

// Coordinates 经纬度
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Anchor 场馆距离计算的参照点：坐标或地址
type Anchor struct {
	Coordinates *Coordinates
	Address     string
}

// Empty 未提供任何位置信息
func (a Anchor) Empty() bool {
	return a.Coordinates == nil && a.Address == ""
}

// Location 推荐响应中回显的位置
type Location struct {
	Address  string   `json:"address,omitempty"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Resolved bool     `json:"resolved"`
}
