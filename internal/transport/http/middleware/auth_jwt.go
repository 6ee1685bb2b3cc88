package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talentdesk/internal/core/auth"
	"talentdesk/internal/domain"
	resp "talentdesk/internal/transport/http/response"
)

// KeyPrincipal gin.Context 中的 auth.Principal
const KeyPrincipal = "principal"

// AuthJWT 信任边界：token → Principal，同时写入 gin.Context 和 request context
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		p := auth.PrincipalFromClaims(claims)
		c.Set(KeyPrincipal, p)
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// UserFinder RefreshPrincipal 只需要按 id 查用户
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// RefreshPrincipal 放在 AuthJWT 之后：角色以存储为准，token 里的角色只用于定位用户。
// 账号已删除返回 401；被降级的账号随即按新角色判权限。
func RefreshPrincipal(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c.Request.Context())
		if !ok {
			resp.Abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		u, err := users.FindByID(c.Request.Context(), p.ID)
		if err != nil {
			_ = c.Error(err)
			resp.Abort(c, http.StatusInternalServerError, "internal error")
			return
		}
		if u == nil {
			resp.Abort(c, http.StatusUnauthorized, "account no longer exists")
			return
		}
		p.Role, p.Email, p.Name = u.Role, u.Email, u.Name
		c.Set(KeyPrincipal, p)
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequirePermission 粗粒度分组守卫；细粒度判断在 service 里
func RequirePermission(allowed func(domain.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c.Request.Context())
		if !ok {
			resp.Abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !allowed(p.Role) {
			resp.Abort(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}
