package venue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/places"
)

type fakeProvider struct {
	mu         sync.Mutex
	geocodes   map[string]model.Coordinates
	venues     map[string][]places.Candidate
	failFind   map[string]bool
	geocodeHit int
	findHit    int
}

func (f *fakeProvider) Geocode(_ context.Context, address string) (*model.Coordinates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geocodeHit++
	c, ok := f.geocodes[address]
	if !ok {
		return nil, places.ErrNotFound
	}
	return &c, nil
}

func (f *fakeProvider) Find(_ context.Context, req *places.Request) ([]places.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findHit++
	if f.failFind[req.Category] {
		return nil, errors.New("upstream timeout")
	}
	return f.venues[req.Category], nil
}

func ptr(v float64) *float64 { return &v }

func at(lng float64) model.Coordinates { return model.Coordinates{Lat: 0, Lng: lng} }

func newFake() *fakeProvider {
	return &fakeProvider{
		geocodes: map[string]model.Coordinates{"1 Main Street": at(0)},
		venues: map[string][]places.Candidate{
			"Sports": {
				{Name: "Unrated Arena", Address: "3 Side Road", Coordinates: at(0.0101)},
				{Name: "Gold Gym", Address: "1 Side Road", Coordinates: at(0.01), Rating: ptr(4.0)},
				{Name: "Best Courts", Address: "2 Side Road", Coordinates: at(0.01), Rating: ptr(4.5)},
				{Name: "Far Field", Address: "Outskirts", Coordinates: at(0.2), Rating: ptr(5.0)},
				{Name: "gold gym", Address: "Old branch", Coordinates: at(0.05), Rating: ptr(3.0)},
				{Name: "Town Pool Hall", Address: "Centre", Coordinates: at(0.05)},
			},
			"Music": {{Name: "Piano House", Coordinates: at(0.02)}},
		},
		failFind: map[string]bool{"Arts": true},
	}
}

func TestRankOrdering(t *testing.T) {
	got := Rank(newFake().venues["Sports"], at(0), 15, 0)

	require.Len(t, got, 4)
	assert.Equal(t, "Best Courts", got[0].Name)
	assert.Equal(t, "Gold Gym", got[1].Name)
	assert.Equal(t, "1 Side Road", got[1].Address)
	assert.Equal(t, "Unrated Arena", got[2].Name)
	assert.Nil(t, got[2].Rating)
	assert.Equal(t, "Town Pool Hall", got[3].Name)

	assert.Equal(t, model.Distance{Value: 1.1, Unit: "km"}, got[0].Distance)
	assert.Equal(t, 5.6, got[3].Distance.Value)
}

func TestRankLimit(t *testing.T) {
	got := Rank(newFake().venues["Sports"], at(0), 15, 2)
	assert.Len(t, got, 2)
}

func TestMatchWithCoordinates(t *testing.T) {
	f := newFake()
	m, err := NewMatcher(f, 8)
	require.NoError(t, err)

	c := at(0)
	got := m.Match(context.Background(), model.Recommendation{Name: "Team Sports League", Category: "Sports"}, model.Anchor{Coordinates: &c})
	require.Len(t, got, 3)
	assert.Equal(t, "Best Courts", got[0].Name)
	assert.Equal(t, 0, f.geocodeHit)
}

func TestMatchUnresolvableAddress(t *testing.T) {
	f := newFake()
	m, err := NewMatcher(f, 8)
	require.NoError(t, err)

	got := m.Match(context.Background(), model.Recommendation{Category: "Sports"}, model.Anchor{Address: "Atlantis"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 0, f.findHit)
}

func TestMatchLookupFailure(t *testing.T) {
	m, err := NewMatcher(newFake(), 8)
	require.NoError(t, err)

	got := m.Match(context.Background(), model.Recommendation{Category: "Arts"}, model.Anchor{Address: "1 Main Street"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMatchHomeActivity(t *testing.T) {
	f := newFake()
	m, err := NewMatcher(f, 8)
	require.NoError(t, err)

	got := m.Match(context.Background(), model.Recommendation{Category: "Home"}, model.Anchor{Address: "1 Main Street"})
	assert.Empty(t, got)
	assert.Equal(t, 0, f.geocodeHit+f.findHit)
}

func TestResolveCachesGeocode(t *testing.T) {
	f := newFake()
	m, err := NewMatcher(f, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		c, err := m.Resolve(context.Background(), model.Anchor{Address: "1 Main Street"})
		require.NoError(t, err)
		assert.Equal(t, at(0), *c)
	}
	assert.Equal(t, 1, f.geocodeHit)

	_, err = m.Resolve(context.Background(), model.Anchor{Coordinates: &model.Coordinates{Lat: 91}})
	assert.ErrorIs(t, err, model.ErrVenueLookupFailed)

	_, err = m.Resolve(context.Background(), model.Anchor{})
	assert.ErrorIs(t, err, model.ErrVenueLookupFailed)
}

func TestEnrichIsolatesFailures(t *testing.T) {
	f := newFake()
	m, err := NewMatcher(f, 8, WithMaxResults(2))
	require.NoError(t, err)

	recs := []model.Recommendation{
		{Name: "Team Sports League", Category: "Sports"},
		{Name: "Drama and Public Speaking", Category: "Arts"},
		{Name: "Music Lessons", Category: "Music"},
		{Name: "Family Reflection Journal", Category: "Home"},
	}
	got, loc := m.Enrich(context.Background(), recs, model.Anchor{Address: "1 Main Street"})

	require.Len(t, got, 4)
	assert.True(t, loc.Resolved)
	require.NotNil(t, loc.Lat)
	assert.Equal(t, 0.0, *loc.Lat)
	assert.Len(t, got[0].Venues, 2)
	assert.Empty(t, got[1].Venues)
	assert.Equal(t, "Piano House", got[2].Venues[0].Name)
	assert.NotNil(t, got[3].Venues)
	assert.Empty(t, got[3].Venues)
	assert.Nil(t, recs[0].Venues)
}

func TestEnrichUnresolvedAnchor(t *testing.T) {
	m, err := NewMatcher(newFake(), 8)
	require.NoError(t, err)

	got, loc := m.Enrich(context.Background(), []model.Recommendation{{Category: "Sports"}}, model.Anchor{Address: "Atlantis"})
	assert.False(t, loc.Resolved)
	assert.Equal(t, "Atlantis", loc.Address)
	assert.Empty(t, got[0].Venues)
}

func TestHaversine(t *testing.T) {
	london := model.Coordinates{Lat: 51.5074, Lng: -0.1278}
	paris := model.Coordinates{Lat: 48.8566, Lng: 2.3522}
	assert.InDelta(t, 343.5, Haversine(london, paris), 1.0)
}
