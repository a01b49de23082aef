package factory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/config"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/places/catalog"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/places/nominatim"
)

func TestNewProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	p, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &nominatim.Client{}, p)

	path := filepath.Join(t.TempDir(), "venues.yaml")
	require.NoError(t, os.WriteFile(path, []byte("venues: []\n"), 0o644))
	cfg.Places.Catalog.File = path

	p, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &catalog.Catalog{}, p)

	cfg.Places.Provider = "bing"
	_, err = NewProvider(cfg)
	assert.EqualError(t, err, "unknown places provider: bing")
}
