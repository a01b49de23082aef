package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnresolvedGrade 无法从文本中解析出年级，非致命
	ErrUnresolvedGrade = errors.New("grade unresolved")
	// ErrEvidenceInsufficient 特质缺少可用证据，归入成长领域
	ErrEvidenceInsufficient = errors.New("evidence insufficient")
	// ErrVenueLookupFailed 单条推荐的场馆查询失败
	ErrVenueLookupFailed = errors.New("venue lookup failed")
	// ErrBatchItemFailed 批处理中单个报告失败
	ErrBatchItemFailed = errors.New("batch item failed")
	// ErrMalformedInput 报告缺少必填字段
	ErrMalformedInput = errors.New("malformed input")
	// ErrReportNotFound 报告不存在
	ErrReportNotFound = errors.New("report not found")
)

// MalformedInputError 列出缺失或非法的字段
type MalformedInputError struct {
	ReportID string
	Fields   []string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed report %q: invalid fields [%s]", e.ReportID, strings.Join(e.Fields, ", "))
}

func (e *MalformedInputError) Unwrap() error { return ErrMalformedInput }

// BatchItemError 批处理中单个报告的失败
type BatchItemError struct {
	ReportID string
	Err      error
}

func (e *BatchItemError) Error() string {
	return fmt.Sprintf("report %s: %v", e.ReportID, e.Err)
}

func (e *BatchItemError) Unwrap() []error { return []error{ErrBatchItemFailed, e.Err} }
