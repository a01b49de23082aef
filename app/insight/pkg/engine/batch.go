package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/logger"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/metrics"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
)

// BatchResult 批量任务结果，逐条记录失败
type BatchResult struct {
	Total     int                     `json:"total"`
	Succeeded int                     `json:"succeeded"`
	Failed    int                     `json:"failed"`
	Updated   int                     `json:"updated,omitempty"`
	Errors    []*model.BatchItemError `json:"-"`
}

// Err 合并全部条目错误，无失败时返回 nil
func (b *BatchResult) Err() error {
	errs := make([]error, len(b.Errors))
	for i, e := range b.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

type batchJob func(ctx context.Context, id string) (changed bool, err error)

// runBatch 并发处理全部报告；单条失败只记录，不中断其余条目
func (e *Engine) runBatch(ctx context.Context, name string, job batchJob) (*BatchResult, error) {
	ids, err := e.store.ListReportIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	res := &BatchResult{Total: len(ids)}
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(e.workers)
	for _, id := range ids {
		g.Go(func() error {
			changed, err := job(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
				res.Errors = append(res.Errors, &model.BatchItemError{ReportID: id, Err: err})
				metrics.RecordBatchItem(name, "failure")
				logger.Log.WithField("report", id).Warnf("[%s] 处理失败: %v", name, err)
				return nil
			}
			res.Succeeded++
			if changed {
				res.Updated++
			}
			metrics.RecordBatchItem(name, "success")
			return nil
		})
	}
	_ = g.Wait()

	sortErrors(res.Errors, ids)
	logger.Log.Infof("[%s] 完成: 共 %d 条，成功 %d，失败 %d", name, res.Total, res.Succeeded, res.Failed)
	return res, nil
}

// RegenerateAll 重新生成全部报告的总结
func (e *Engine) RegenerateAll(ctx context.Context) (*BatchResult, error) {
	return e.runBatch(ctx, "regenerate", func(ctx context.Context, id string) (bool, error) {
		_, err := e.RegenerateSummary(ctx, id)
		return false, err
	})
}

// BackfillGrades 对全部报告重新解析年级，只写回发生变化的记录
func (e *Engine) BackfillGrades(ctx context.Context) (*BatchResult, error) {
	return e.runBatch(ctx, "backfill", func(ctx context.Context, id string) (bool, error) {
		r, err := e.store.GetReport(ctx, id)
		if err != nil {
			return false, err
		}
		g := ResolveGrade(r.ExtractedText)
		if g == r.Grade {
			return false, nil
		}
		if err := e.store.UpdateGrade(ctx, id, g); err != nil {
			return false, err
		}
		logger.Log.WithField("report", id).Infof("年级更新: %s -> %s", r.Grade, g)
		return true, nil
	})
}

// sortErrors 按报告顺序排列失败条目，保证输出稳定
func sortErrors(errs []*model.BatchItemError, ids []string) {
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	sort.Slice(errs, func(i, j int) bool { return pos[errs[i].ReportID] < pos[errs[j].ReportID] })
}
