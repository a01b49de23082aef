package server

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/engine"
	"github.com/iWorld-y/progress_insight/app/portal/internal/conf"
)

type countingRegenerator struct{ calls int }

func (c *countingRegenerator) RegenerateAll(ctx context.Context) (*engine.BatchResult, error) {
	c.calls++
	return &engine.BatchResult{Total: 1, Succeeded: 1}, nil
}

func TestRegenerationJobDisabled(t *testing.T) {
	j := newRegenerationJob(nil, &countingRegenerator{}, log.DefaultLogger)
	require.NoError(t, j.Start(context.Background()))
	require.NoError(t, j.Stop(context.Background()))
}

func TestRegenerationJobInvalidSpec(t *testing.T) {
	j := newRegenerationJob(&conf.Schedule{Regenerate: "every tuesday"}, &countingRegenerator{}, log.DefaultLogger)
	assert.Error(t, j.Start(context.Background()))
}

func TestRegenerationJobRun(t *testing.T) {
	r := &countingRegenerator{}
	j := newRegenerationJob(&conf.Schedule{Regenerate: "0 3 * * *"}, r, log.DefaultLogger)
	require.NoError(t, j.Start(context.Background()))
	j.run(context.Background())
	require.NoError(t, j.Stop(context.Background()))
	assert.Equal(t, 1, r.calls)
}

func TestToConfigDefaults(t *testing.T) {
	cfg := toConfig(&conf.Insight{
		Venues: &conf.Venues{MaxResults: 5},
		Db:     &conf.DB{Host: "db", Port: 6543},
	})
	assert.Equal(t, 5, cfg.Venues.MaxResults)
	assert.Equal(t, 15.0, cfg.Venues.RadiusKm)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, "template", cfg.Narrative.Renderer)
	assert.Equal(t, 8, cfg.Recommend.Limit)
}
