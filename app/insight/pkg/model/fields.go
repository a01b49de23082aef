package model

import (
	"fmt"
	"strings"
)

// FieldSpec 报告字段定义
type FieldSpec struct {
	Name     string
	Required bool
	// Check 返回该字段中不合法的子字段路径，空表示合法
	Check func(r *Report) []string
}

// ReportFields 报告中可识别的字段，入库与重新生成前按此校验
var ReportFields = []FieldSpec{
	{Name: "id", Required: true, Check: requireText("id", func(r *Report) string { return r.ID })},
	{Name: "studentId", Required: true, Check: requireText("studentId", func(r *Report) string { return r.StudentID })},
	{Name: "extractedText", Required: true, Check: requireText("extractedText", func(r *Report) string { return r.ExtractedText })},
	{Name: "grade"},
	{Name: "reportType"},
	{Name: "term"},
	{Name: "subjectAreas", Check: checkSubjects},
	{Name: "learnerProfileAttributes", Check: checkAttributes},
	{Name: "teacherComments"},
	{Name: "summary"},
	{Name: "createdAt"},
}

// Validate 按 ReportFields 校验报告
func (r *Report) Validate() error {
	if r == nil {
		return &MalformedInputError{Fields: []string{"report"}}
	}
	var bad []string
	for _, f := range ReportFields {
		if f.Check == nil {
			continue
		}
		bad = append(bad, f.Check(r)...)
	}
	if r.SchemaVersion > CurrentSchemaVersion {
		bad = append(bad, "schemaVersion")
	}
	if len(bad) > 0 {
		return &MalformedInputError{ReportID: r.ID, Fields: bad}
	}
	return nil
}

func requireText(name string, get func(r *Report) string) func(r *Report) []string {
	return func(r *Report) []string {
		if strings.TrimSpace(get(r)) == "" {
			return []string{name}
		}
		return nil
	}
}

func checkSubjects(r *Report) []string {
	var bad []string
	for i, s := range r.SubjectAreas {
		if strings.TrimSpace(s.SubjectName) == "" {
			bad = append(bad, fmt.Sprintf("subjectAreas[%d].subjectName", i))
		}
	}
	return bad
}

func checkAttributes(r *Report) []string {
	var bad []string
	for i, a := range r.LearnerProfile {
		if strings.TrimSpace(a.Attribute) == "" {
			bad = append(bad, fmt.Sprintf("learnerProfileAttributes[%d].attribute", i))
		}
	}
	return bad
}
