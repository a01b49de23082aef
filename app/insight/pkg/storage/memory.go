package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
)

// Memory 内存存储，用于命令行与测试
type Memory struct {
	mu      sync.RWMutex
	reports map[string]*model.Report
}

// NewMemory 创建内存存储
func NewMemory() *Memory {
	return &Memory{reports: map[string]*model.Report{}}
}

func (m *Memory) SaveReport(_ context.Context, r *model.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[r.ID] = clone(r)
	return nil
}

func (m *Memory) GetReport(_ context.Context, id string) (*model.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrReportNotFound, id)
	}
	return clone(r), nil
}

func (m *Memory) LatestReport(_ context.Context) (*model.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *model.Report
	for _, r := range m.reports {
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) ||
			(r.CreatedAt.Equal(latest.CreatedAt) && r.ID > latest.ID) {
			latest = r
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: latest", model.ErrReportNotFound)
	}
	return clone(latest), nil
}

func (m *Memory) ListReportIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	reports := make([]*model.Report, 0, len(m.reports))
	for _, r := range m.reports {
		reports = append(reports, r)
	}
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].CreatedAt.Before(reports[j].CreatedAt)
		}
		return reports[i].ID < reports[j].ID
	})
	ids := make([]string, len(reports))
	for i, r := range reports {
		ids[i] = r.ID
	}
	return ids, nil
}

func (m *Memory) UpdateGrade(_ context.Context, id string, g model.Grade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrReportNotFound, id)
	}
	r.Grade = g
	return nil
}

func (m *Memory) SaveSummary(_ context.Context, id string, s *model.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrReportNotFound, id)
	}
	if s == nil {
		r.Summary = nil
		return nil
	}
	cp := *s
	r.Summary = &cp
	return nil
}

func clone(r *model.Report) *model.Report {
	cp := *r
	cp.SubjectAreas = append([]model.SubjectArea(nil), r.SubjectAreas...)
	cp.LearnerProfile = append([]model.AttributeEvidence(nil), r.LearnerProfile...)
	if r.Summary != nil {
		s := *r.Summary
		cp.Summary = &s
	}
	return &cp
}
