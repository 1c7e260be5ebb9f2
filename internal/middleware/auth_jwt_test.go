package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func issueToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  int64(1),
		"tid":  int64(2),
		"role": "CUSTOMER",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(15 * time.Minute).Unix(),
	}
}

// AuthJWT→next の順に通し、contextに入った値をそのまま返すハンドラで検証する
func runAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := AuthJWT(config.Config{JWTSecret: testSecret})
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	assert.NoError(t, err)
	return rec, c
}

func TestAuthJWT_ValidToken(t *testing.T) {
	token := issueToken(t, testSecret, validClaims())
	rec, c := runAuth(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), c.Get(CtxCustomerIDKey))
	assert.Equal(t, int64(2), c.Get(CtxTenantIDKey))
	assert.Equal(t, "CUSTOMER", c.Get(CtxRoleKey))
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	rec, _ := runAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	token := issueToken(t, testSecret, validClaims())
	rec, _ := runAuth(t, "Basic "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	token := issueToken(t, "other-secret", validClaims())
	rec, _ := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := issueToken(t, testSecret, claims)

	rec, _ := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_MissingTenantClaim(t *testing.T) {
	claims := validClaims()
	delete(claims, "tid")
	token := issueToken(t, testSecret, claims)

	rec, _ := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOwnerRoleGuard(t *testing.T) {
	e := echo.New()

	run := func(role interface{}) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set(CtxRoleKey, role)
		}

		handler := OwnerRoleGuard()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		assert.NoError(t, handler(c))
		return rec
	}

	assert.Equal(t, http.StatusOK, run("OWNER").Code)
	assert.Equal(t, http.StatusForbidden, run("CUSTOMER").Code)
	assert.Equal(t, http.StatusUnauthorized, run(nil).Code)
}
