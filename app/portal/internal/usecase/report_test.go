package usecase

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/engine"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
)

// mockInsightRepo 模拟报告增强仓库
type mockInsightRepo struct {
	err error
}

func (m *mockInsightRepo) Recommend(ctx context.Context, id string, req engine.RecommendRequest) (*engine.Enrichment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &engine.Enrichment{Recommendations: []model.Recommendation{{Name: "Chess Club"}}}, nil
}

func (m *mockInsightRepo) RenderDocument(ctx context.Context, id string, req engine.DocumentRequest, w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, "<html>"+id+"</html>")
	return err
}

func (m *mockInsightRepo) RegenerateSummary(ctx context.Context, id string) (*model.Summary, error) {
	return &model.Summary{OverallPerformance: "ok"}, m.err
}

func (m *mockInsightRepo) RegenerateAll(ctx context.Context) (*engine.BatchResult, error) {
	return &engine.BatchResult{Total: 2, Succeeded: 1, Failed: 1,
		Errors: []*model.BatchItemError{{ReportID: "r2", Err: model.ErrMalformedInput}}}, nil
}

func (m *mockInsightRepo) LatestReport(ctx context.Context) (*model.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &model.Report{ID: "r1"}, nil
}

func TestReportUseCase_Recommend(t *testing.T) {
	uc := NewReportUseCase(&mockInsightRepo{}, log.DefaultLogger)

	out, err := uc.Recommend(context.Background(), "r1", engine.RecommendRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Chess Club", out.Recommendations[0].Name)
}

func TestReportUseCase_Document(t *testing.T) {
	uc := NewReportUseCase(&mockInsightRepo{}, log.DefaultLogger)

	doc, err := uc.Document(context.Background(), "r1", engine.DocumentRequest{})
	require.NoError(t, err)
	assert.Equal(t, "<html>r1</html>", string(doc))
}

func TestReportUseCase_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		reason string
	}{
		{"not found", fmt.Errorf("%w: r9", model.ErrReportNotFound), 404, "REPORT_NOT_FOUND"},
		{"malformed", &model.MalformedInputError{ReportID: "r9", Fields: []string{"studentId"}}, 400, "MALFORMED_INPUT"},
		{"store down", fmt.Errorf("connection refused"), 500, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewReportUseCase(&mockInsightRepo{err: tt.err}, log.DefaultLogger)
			_, err := uc.Recommend(context.Background(), "r9", engine.RecommendRequest{})
			require.Error(t, err)
			se := errors.FromError(err)
			assert.Equal(t, int32(tt.code), se.Code)
			assert.Equal(t, tt.reason, se.Reason)
		})
	}
}

func TestReportUseCase_RegenerateAll(t *testing.T) {
	uc := NewReportUseCase(&mockInsightRepo{}, log.DefaultLogger)

	res, err := uc.RegenerateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, "r2", res.Errors[0].ReportID)
}
