package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appErr "github.com/replyforge/replyforge/internal/pkg/errors"
)

func runHandleError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/api/v1/documents", nil)
	handleError(c, err)
	return rec
}

func TestHandleErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{appErr.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", appErr.ErrNotFound), http.StatusNotFound},
		{appErr.ErrInvalid, http.StatusBadRequest},
		{fmt.Errorf("%w: bad input", appErr.ErrInvalid), http.StatusBadRequest},
		{appErr.ErrUnauthorized, http.StatusUnauthorized},
		{appErr.ErrForbidden, http.StatusForbidden},
		{appErr.ErrTooMany, http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := runHandleError(t, tc.err)
		require.Equal(t, tc.status, rec.Code, "error %v", tc.err)
		require.Contains(t, rec.Body.String(), `"error"`)
	}
}

func TestHandleErrorInvalidIncludesMessage(t *testing.T) {
	rec := runHandleError(t, fmt.Errorf("%w: file type \"exe\"", appErr.ErrInvalid))
	require.Contains(t, rec.Body.String(), "file type")
}

func TestHandleErrorNilIsNoop(t *testing.T) {
	rec := runHandleError(t, nil)
	require.Empty(t, rec.Body.String())
}
