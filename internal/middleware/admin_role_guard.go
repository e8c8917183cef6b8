package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

//注文のステータス遷移・管理者メモ・全注文一覧はADMINロール限定。
//AuthJWTがcontextに入れたroleを見るだけで、DBへの問い合わせはしない。

func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxUserRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//USERは拒否、ADMINだけ許可
			if role != "ADMIN" {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}
