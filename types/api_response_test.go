package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListResponse_EmptyListKeepsDataAndCount(t *testing.T) {
	body, err := json.Marshal(ListResponse(nil))
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":true,"count":0,"data":[]}`, string(body))
}

func TestErrorResponse_OmitsData(t *testing.T) {
	body, err := json.Marshal(ErrorResponse("NOT_FOUND", "Feedback not found", "ID: 1"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":false,"error":"NOT_FOUND","message":"Feedback not found","details":"ID: 1"}`, string(body))
}

func TestRawEnvelope_DecodesEnvelope(t *testing.T) {
	body, err := json.Marshal(SuccessResponse(&Feedback{ID: "1", Name: "Alice"}, "ok"))
	require.NoError(t, err)

	var raw RawEnvelope
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.True(t, raw.Success)
	assert.Equal(t, "ok", raw.Message)

	var fb Feedback
	require.NoError(t, json.Unmarshal(raw.Data, &fb))
	assert.Equal(t, "Alice", fb.Name)
}
