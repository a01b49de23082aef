package server

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/robfig/cron/v3"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/engine"
	"github.com/iWorld-y/progress_insight/app/portal/internal/conf"
)

// Regenerator 批量重新生成总结的能力
type Regenerator interface {
	RegenerateAll(ctx context.Context) (*engine.BatchResult, error)
}

// RegenerationJob 按 cron 表达式定时重新生成全部总结
type RegenerationJob struct {
	spec string
	eng  Regenerator
	cron *cron.Cron
	log  *log.Helper
}

var _ transport.Server = (*RegenerationJob)(nil)

// NewRegenerationJob 创建定时任务，未配置表达式时 Start 不做任何事
func NewRegenerationJob(c *conf.Schedule, eng *engine.Engine, logger log.Logger) *RegenerationJob {
	return newRegenerationJob(c, eng, logger)
}

func newRegenerationJob(c *conf.Schedule, eng Regenerator, logger log.Logger) *RegenerationJob {
	j := &RegenerationJob{eng: eng, cron: cron.New(), log: log.NewHelper(logger)}
	if c != nil {
		j.spec = c.Regenerate
	}
	return j
}

func (j *RegenerationJob) Start(ctx context.Context) error {
	if j.spec == "" {
		return nil
	}
	if _, err := j.cron.AddFunc(j.spec, func() { j.run(context.Background()) }); err != nil {
		return fmt.Errorf("invalid regenerate schedule %q: %w", j.spec, err)
	}
	j.cron.Start()
	j.log.Infof("summary regeneration scheduled: %s", j.spec)
	return nil
}

func (j *RegenerationJob) Stop(ctx context.Context) error {
	done := j.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *RegenerationJob) run(ctx context.Context) {
	res, err := j.eng.RegenerateAll(ctx)
	if err != nil {
		j.log.Errorf("scheduled regeneration failed: %v", err)
		return
	}
	j.log.Infof("scheduled regeneration: total=%d succeeded=%d failed=%d", res.Total, res.Succeeded, res.Failed)
}
