package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleがOWNERかどうかを確認します。

func OwnerRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//CUSTOMERは拒否、OWNERだけ許可
			if role != "OWNER" {
				return c.JSON(http.StatusForbidden, errorJSON("owner only"))
			}

			return next(c)
		}
	}
}
