package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/places"
)

const sample = `
geocodes:
  - address: "1 Harbour Road, Singapore"
    lat: 1.2650
    lng: 103.8220
venues:
  - name: Harbour Robotics Lab
    category: STEM
    address: 5 Harbour Road
    lat: 1.2660
    lng: 103.8230
    rating: 4.6
  - name: Bay Science Centre
    category: stem
    address: 20 Bay Avenue
    lat: 1.3000
    lng: 103.8500
  - name: Seaside Swim School
    category: Aquatics
    address: 2 Beach Walk
    lat: 1.2700
    lng: 103.8300
    rating: 4.1
`

func loadSample(t *testing.T) *Catalog {
	path := filepath.Join(t.TempDir(), "venues.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	c, err := Load(path)
	require.NoError(t, err)
	return c
}

func TestCatalogGeocode(t *testing.T) {
	c := loadSample(t)

	coords, err := c.Geocode(context.Background(), "  1 harbour road,   SINGAPORE ")
	require.NoError(t, err)
	assert.Equal(t, 1.2650, coords.Lat)

	_, err = c.Geocode(context.Background(), "2 Unknown Street")
	assert.ErrorIs(t, err, places.ErrNotFound)
}

func TestCatalogFind(t *testing.T) {
	c := loadSample(t)

	got, err := c.Find(context.Background(), &places.Request{Category: "STEM"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Harbour Robotics Lab", got[0].Name)
	require.NotNil(t, got[0].Rating)
	assert.Equal(t, 4.6, *got[0].Rating)
	assert.Nil(t, got[1].Rating)
}

func TestCatalogCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := loadSample(t).Find(ctx, &places.Request{Category: "STEM"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
