package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestWriteError_HTTPError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := writeError(c, usecase.NewHTTPError(http.StatusConflict, usecase.CodeInsufficientStock, "not enough stock for tea"))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, "not enough stock for tea", body.Error)
}

func TestWriteError_UnknownErrorIs500(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := writeError(c, errors.New("sql: connection refused"))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL", body.Code)

	//内部エラーの詳細は外に出さない
	assert.Equal(t, "internal error", body.Error)
}
