package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramedit/paramedit/internal/event"
	"github.com/paramedit/paramedit/internal/host/memhost"
	"github.com/paramedit/paramedit/internal/session"
	"github.com/paramedit/paramedit/pkg/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	event.Reset()
	t.Cleanup(event.Reset)

	h := memhost.New()
	ctx := context.Background()
	_, err := h.Create(ctx, "width", "10 mm", "mm", "outer width")
	require.NoError(t, err)
	_, err = h.Create(ctx, "height", "width / 2", "mm", "")
	require.NoError(t, err)

	return New(DefaultConfig(), session.NewService(h, nil))
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestOpenSession(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/session", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	var info types.SessionInfo
	require.NoError(t, json.Unmarshal(body["session"], &info))
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, types.SessionEditing, info.State)
	assert.Equal(t, 0, info.Cursor)
	assert.Equal(t, 2, info.Count)
	assert.Equal(t, "width", info.Focused)
}

func TestSecondOpenConflicts(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/session", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/session", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(types.ErrCodeSessionActive), decodeErrorCode(t, rec))
}

func TestGetSessionWithoutOpen(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/session", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(types.ErrCodeSessionClosed), decodeErrorCode(t, rec))
}

func TestNavigate(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/session", nil)

	rec := doJSON(t, srv, http.MethodPost, "/session/navigate", navigateRequest{Direction: types.DirectionNext})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	var info types.SessionInfo
	require.NoError(t, json.Unmarshal(body["session"], &info))
	assert.Equal(t, "height", info.Focused)

	rec = doJSON(t, srv, http.MethodPost, "/session/navigate", navigateRequest{Focus: "width"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/session/navigate", navigateRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewEdit(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/session", nil)

	rec := doJSON(t, srv, http.MethodPost, "/session/preview", previewRequest{
		Name: "width", Field: types.FieldExpression, Value: "12 mm",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	var param types.Parameter
	require.NoError(t, json.Unmarshal(body["param"], &param))
	assert.Equal(t, "12 mm", param.Expression)
	assert.InDelta(t, 12.0, param.Value, 1e-9)

	// Focused record when name is omitted.
	rec = doJSON(t, srv, http.MethodPost, "/session/preview", previewRequest{
		Field: types.FieldComment, Value: "updated",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decodeBody(t, rec)["param"], &param))
	assert.Equal(t, "width", param.Name)
	assert.Equal(t, "updated", param.Comment)
}

func TestPreviewEditInvalidExpression(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/session", nil)

	rec := doJSON(t, srv, http.MethodPost, "/session/preview", previewRequest{
		Name: "width", Field: types.FieldExpression, Value: "nosuch + 1",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(types.ErrCodeInvalidExpression), decodeErrorCode(t, rec))
}

func TestPreviewEditRenameRejected(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/session", nil)

	rec := doJSON(t, srv, http.MethodPost, "/session/preview", previewRequest{
		Name: "width", Field: types.FieldName, Value: "girth",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(types.ErrCodeUnsupportedOperation), decodeErrorCode(t, rec))
}

func TestAddParameter(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/session", nil)

	rec := doJSON(t, srv, http.MethodPost, "/session/params", addParameterRequest{
		Name: "depth", Expression: "height * 2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var param types.Parameter
	require.NoError(t, json.Unmarshal(decodeBody(t, rec)["param"], &param))
	assert.Equal(t, "depth", param.Name)
	assert.InDelta(t, 10.0, param.Value, 1e-9)
}

func TestAddParameterDuplicate(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/session", nil)

	rec := doJSON(t, srv, http.MethodPost, "/session/params", addParameterRequest{
		Name: "width", Expression: "1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(types.ErrCodeDuplicateName), decodeErrorCode(t, rec))
}

func TestDeleteParameterReferenced(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/session", nil)

	rec := doJSON(t, srv, http.MethodDelete, "/session/params/width", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(types.ErrCodeReferencedByOthers), decodeErrorCode(t, rec))
}

func TestDeleteParameter(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/session", nil)

	rec := doJSON(t, srv, http.MethodDelete, "/session/params/height", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/session/params/height", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommitSession(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/session", nil)
	doJSON(t, srv, http.MethodPost, "/session/preview", previewRequest{
		Name: "width", Field: types.FieldExpression, Value: "20 mm",
	})

	rec := doJSON(t, srv, http.MethodPost, "/session/commit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	var summary types.ChangeSummary
	require.NoError(t, json.Unmarshal(body["summary"], &summary))
	require.Len(t, summary.Updated, 1)
	assert.Equal(t, "width", summary.Updated[0].Name)

	// The slot is free again.
	rec = doJSON(t, srv, http.MethodPost, "/session", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCancelSession(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/session", nil)
	doJSON(t, srv, http.MethodPost, "/session/preview", previewRequest{
		Name: "width", Field: types.FieldExpression, Value: "99 mm",
	})

	rec := doJSON(t, srv, http.MethodPost, "/session/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	var params []*types.Parameter
	require.NoError(t, json.Unmarshal(body["params"], &params))
	require.Len(t, params, 2)
	assert.Equal(t, "10 mm", params[0].Expression)
}

func TestCommitWithoutSession(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/session/commit", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(types.ErrCodeSessionClosed), decodeErrorCode(t, rec))
}

func TestListParameters(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/params", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var params []*types.Parameter
	require.NoError(t, json.Unmarshal(decodeBody(t, rec)["params"], &params))
	assert.Len(t, params, 2)
}

func TestListParametersFilter(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/params?filter=w*", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var params []*types.Parameter
	require.NoError(t, json.Unmarshal(decodeBody(t, rec)["params"], &params))
	require.Len(t, params, 1)
	assert.Equal(t, "width", params[0].Name)
}

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code   types.EditErrorCode
		status int
	}{
		{types.ErrCodeNotFound, http.StatusNotFound},
		{types.ErrCodeInvalidExpression, http.StatusUnprocessableEntity},
		{types.ErrCodeDuplicateName, http.StatusConflict},
		{types.ErrCodeReferencedByOthers, http.StatusConflict},
		{types.ErrCodeSessionActive, http.StatusConflict},
		{types.ErrCodeSessionClosed, http.StatusConflict},
		{types.ErrCodeUnsupportedOperation, http.StatusBadRequest},
		{types.ErrCodeHostError, http.StatusBadGateway},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, statusForCode(tt.code), string(tt.code))
	}
}
