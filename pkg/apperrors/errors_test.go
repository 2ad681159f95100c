package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailsDoesNotMutatePredefined(t *testing.T) {
	withDetails := ErrStoreNotFound.WithDetails(map[string]string{"id": "7"})

	assert.Nil(t, ErrStoreNotFound.Details)
	assert.NotNil(t, withDetails.Details)
	assert.True(t, errors.Is(withDetails, ErrStoreNotFound))
}

func TestWrappedAppErrorIsFound(t *testing.T) {
	cause := errors.New("duplicate key")
	err := fmt.Errorf("create rating: %w", ErrRatingAlreadyExists.WithError(cause))

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.HTTPCode)
	assert.True(t, errors.Is(err, ErrRatingAlreadyExists))
	assert.True(t, errors.Is(err, cause))
}

func TestMarshalJSONHidesInternals(t *testing.T) {
	err := InternalError(errors.New("pq: connection refused"))

	raw, mErr := json.Marshal(err)
	require.NoError(t, mErr)
	assert.NotContains(t, string(raw), "connection refused")
	assert.Contains(t, string(raw), string(CodeInternalError))
}

func TestHandleErrorMapsUnknownErrorsTo500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/stores", nil)

	HandleError(c, errors.New("dial tcp 10.0.0.1:5432: i/o timeout"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "Internal server error", body.Error.Message)
}

func TestHandleErrorKeepsClientErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/ratings", nil)

	HandleError(c, ValidationError(map[string]string{"rating": "Rating must be between 1 and 5"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Rating must be between 1 and 5")
}
