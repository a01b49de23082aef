package service

import (
	"net/url"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/engine"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
)

func TestRecommendRequest(t *testing.T) {
	q, _ := url.ParseQuery("lat=1.5&lng=103.8&currentActivities=Chess%20Club&currentActivities[]=Swimming&currentActivities=%20")
	req, err := recommendRequest(q)
	require.NoError(t, err)
	require.NotNil(t, req.Anchor.Coordinates)
	assert.Equal(t, 1.5, req.Anchor.Coordinates.Lat)
	assert.Equal(t, []string{"Chess Club", "Swimming"}, req.CurrentActivities)
}

func TestRecommendRequestAddress(t *testing.T) {
	q, _ := url.ParseQuery("address=1%20Harbour%20Road")
	req, err := recommendRequest(q)
	require.NoError(t, err)
	assert.Nil(t, req.Anchor.Coordinates)
	assert.Equal(t, "1 Harbour Road", req.Anchor.Address)
}

func TestRecommendRequestInvalid(t *testing.T) {
	for _, raw := range []string{"lat=1", "lat=abc&lng=1", "lat=1&lng=east"} {
		q, _ := url.ParseQuery(raw)
		_, err := recommendRequest(q)
		require.Error(t, err, raw)
		assert.Equal(t, "MALFORMED_INPUT", errors.Reason(err))
	}
}

func TestBatchReply(t *testing.T) {
	reply := batchReply(&engine.BatchResult{
		Total: 3, Succeeded: 2, Failed: 1,
		Errors: []*model.BatchItemError{{ReportID: "r2", Err: model.ErrMalformedInput}},
	})
	assert.Equal(t, []BatchItemReply{{ReportID: "r2", Error: model.ErrMalformedInput.Error()}}, reply.Errors)

	empty := batchReply(&engine.BatchResult{})
	assert.NotNil(t, empty.Errors)
}
