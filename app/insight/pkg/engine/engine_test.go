package engine

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/places"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/storage"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/venue"
)

var fixedNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type stubProvider struct{}

func (stubProvider) Geocode(_ context.Context, address string) (*model.Coordinates, error) {
	if address == "1 Harbour Road" {
		return &model.Coordinates{Lat: 1.265, Lng: 103.822}, nil
	}
	return nil, places.ErrNotFound
}

func (stubProvider) Find(_ context.Context, req *places.Request) ([]places.Candidate, error) {
	if req.Category != "STEM" {
		return nil, nil
	}
	return []places.Candidate{
		{Name: "Harbour Robotics Lab", Address: "5 Harbour Road", Coordinates: model.Coordinates{Lat: 1.266, Lng: 103.823}},
	}, nil
}

func report(id string) *model.Report {
	return &model.Report{
		ID:            id,
		StudentID:     "s-1",
		ExtractedText: "PYP 3D Term 1 report",
		ReportType:    "PYP",
		Term:          "Term 1",
		LearnerProfile: []model.AttributeEvidence{
			{Attribute: "Communicator", Evidence: "Confidently presents her ideas to the whole class and leads group discussions."},
			{Attribute: "Inquirer", Evidence: "Asks questions."},
		},
		TeacherComments: "She is beginning to reflect on her work with support.",
		SchemaVersion:   model.CurrentSchemaVersion,
	}
}

func newEngine(t *testing.T) (*Engine, *storage.Memory) {
	store := storage.NewMemory()
	m, err := venue.NewMatcher(stubProvider{}, 16)
	require.NoError(t, err)
	return New(store, nil, nil, WithMatcher(m), WithWorkers(2), WithClock(func() time.Time { return fixedNow })), store
}

func TestIngest(t *testing.T) {
	e, store := newEngine(t)

	r, err := e.Ingest(context.Background(), report(""))
	require.NoError(t, err)
	assert.Len(t, r.ID, 36)
	assert.Equal(t, model.Grade("3D"), r.Grade)
	assert.Equal(t, fixedNow, r.CreatedAt)
	require.NotNil(t, r.Summary)
	assert.Contains(t, r.Summary.OverallPerformance, "grade 3D")

	stored, err := store.GetReport(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Grade, stored.Grade)
	assert.NotNil(t, stored.Summary)
}

func TestIngestUnresolvedGrade(t *testing.T) {
	e, _ := newEngine(t)
	in := report("r-1")
	in.ExtractedText = "Progress report for the spring term"

	r, err := e.Ingest(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, r.Grade.Resolved())
}

func TestIngestMalformed(t *testing.T) {
	e, store := newEngine(t)
	in := report("r-1")
	in.StudentID = ""

	_, err := e.Ingest(context.Background(), in)
	assert.ErrorIs(t, err, model.ErrMalformedInput)
	_, err = store.GetReport(context.Background(), "r-1")
	assert.ErrorIs(t, err, model.ErrReportNotFound)
}

func TestRegenerateAllIsolatesFailures(t *testing.T) {
	e, store := newEngine(t)
	ctx := context.Background()

	bad := report("r-2")
	bad.ExtractedText = ""
	for i, r := range []*model.Report{report("r-1"), bad, report("r-3")} {
		r.CreatedAt = fixedNow.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.SaveReport(ctx, r))
	}

	res, err := e.RegenerateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "r-2", res.Errors[0].ReportID)
	assert.ErrorIs(t, res.Errors[0], model.ErrBatchItemFailed)
	assert.ErrorIs(t, res.Errors[0], model.ErrMalformedInput)
	assert.ErrorIs(t, res.Err(), model.ErrBatchItemFailed)

	for _, id := range []string{"r-1", "r-3"} {
		r, err := store.GetReport(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, r.Summary, id)
	}
}

func TestRegenerateReplacesSummary(t *testing.T) {
	e, store := newEngine(t)
	ctx := context.Background()
	r := report("r-1")
	r.Summary = &model.Summary{KeyStrengths: []string{"stale"}}
	require.NoError(t, store.SaveReport(ctx, r))

	first, err := e.RegenerateSummary(ctx, "r-1")
	require.NoError(t, err)
	assert.NotContains(t, first.KeyStrengths, "stale")

	second, err := e.RegenerateSummary(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, first.KeyStrengths, second.KeyStrengths)
	assert.Equal(t, first.AreasNeedingAttention, second.AreasNeedingAttention)

	_, err = e.RegenerateSummary(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrReportNotFound)
}

func TestBackfillGrades(t *testing.T) {
	e, store := newEngine(t)
	ctx := context.Background()

	stale := report("r-1")
	stale.ExtractedText = "Grade: 4 end of year report"
	current := report("r-2")
	current.Grade = "3D"
	require.NoError(t, store.SaveReport(ctx, stale))
	require.NoError(t, store.SaveReport(ctx, current))

	res, err := e.BackfillGrades(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Updated)

	got, _ := store.GetReport(ctx, "r-1")
	assert.Equal(t, model.Grade("4"), got.Grade)
}

func TestRecommend(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	_, err := e.Ingest(ctx, report("r-1"))
	require.NoError(t, err)

	out, err := e.Recommend(ctx, "r-1", RecommendRequest{
		Anchor:            model.Anchor{Address: "1 Harbour Road"},
		CurrentActivities: []string{"junior robotics club"},
	})
	require.NoError(t, err)

	assert.True(t, out.Location.Resolved)
	require.NotEmpty(t, out.Recommendations)
	first := out.Recommendations[0]
	assert.Equal(t, "Junior Robotics Club", first.Name)
	assert.Equal(t, model.PriorityHigh, first.Priority)
	require.Len(t, first.Venues, 1)
	assert.Equal(t, "Harbour Robotics Lab", first.Venues[0].Name)

	assert.Len(t, out.ParentActions, len(out.Recommendations)-1)
	for _, a := range out.ParentActions {
		assert.NotEqual(t, "Junior Robotics Club", a.Activities[0].Activity)
	}
}

func TestRecommendUnresolvedLocation(t *testing.T) {
	e, store := newEngine(t)
	ctx := context.Background()
	require.NoError(t, store.SaveReport(ctx, report("r-1")))

	out, err := e.Recommend(ctx, "r-1", RecommendRequest{Anchor: model.Anchor{Address: "Nowhere"}})
	require.NoError(t, err)
	assert.False(t, out.Location.Resolved)
	require.NotEmpty(t, out.Recommendations)
	for _, r := range out.Recommendations {
		assert.Empty(t, r.Venues)
	}

	stored, _ := store.GetReport(ctx, "r-1")
	assert.Nil(t, stored.Summary)
}

func TestRecommendNotFound(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.Recommend(context.Background(), "missing", RecommendRequest{})
	assert.True(t, errors.Is(err, model.ErrReportNotFound))
}

func TestRenderDocument(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	_, err := e.Ingest(ctx, report("r-1"))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = e.RenderDocument(ctx, "r-1", DocumentRequest{IncludeRecommendations: true, Address: "1 Harbour Road"}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Student s-1")
	assert.Contains(t, buf.String(), "Junior Robotics Club")
	assert.Contains(t, buf.String(), "Harbour Robotics Lab")
}
