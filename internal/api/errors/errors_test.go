package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"podscribe/internal/stage"
)

func TestHTTPStatusByKind(t *testing.T) {
	tests := []struct {
		kind stage.Kind
		want int
	}{
		{stage.KindInvalidURL, http.StatusBadRequest},
		{stage.KindNotFound, http.StatusNotFound},
		{stage.KindNoFeedFound, http.StatusNotFound},
		{stage.KindNoMatch, http.StatusUnprocessableEntity},
		{stage.KindResourceTooLarge, http.StatusUnprocessableEntity},
		{stage.KindTimeout, http.StatusGatewayTimeout},
		{stage.KindAuth, http.StatusBadGateway},
		{stage.KindDownload, http.StatusBadGateway},
		{stage.KindTranscription, http.StatusBadGateway},
		{stage.KindTransient, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		apiErr := &APIError{Kind: string(tt.kind)}
		assert.Equal(t, tt.want, apiErr.HTTPStatus(), "kind %s", tt.kind)
	}
}

func TestFromError_PreservesStageContext(t *testing.T) {
	err := stage.NewError(stage.KindNoMatch, stage.Match, "best entry scored below similarity threshold").
		WithDetail("best_score", "0.412")

	apiErr := FromError(fmt.Errorf("running pipeline: %w", err))
	assert.Equal(t, string(stage.KindNoMatch), apiErr.Kind)
	assert.Equal(t, string(stage.Match), apiErr.Stage)
	assert.Equal(t, "0.412", apiErr.Details["best_score"])
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.HTTPStatus())
}

func TestFromError_OpaqueForUnknownErrors(t *testing.T) {
	apiErr := FromError(fmt.Errorf("database on fire"))
	assert.Equal(t, "internal", apiErr.Kind)
	assert.Equal(t, "Internal server error", apiErr.Message)
	assert.NotContains(t, apiErr.Message, "database")
	assert.Equal(t, http.StatusInternalServerError, apiErr.HTTPStatus())
}
