package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"talentdesk/internal/core/auth"
	"talentdesk/internal/core/config"
	"talentdesk/internal/core/server"
	mdw "talentdesk/internal/transport/http/middleware"
)

// Deps 两个引擎共用的依赖
type Deps struct {
	Log      *zap.Logger
	JWT      *auth.JWTer
	Users    mdw.UserFinder
	Limits   config.Limits
	Registry *Registry
}

func base(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log)
	lim := d.Limits
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst, 10*time.Minute),
		mdw.ConcurrencyLimit(lim.MaxConcurrent),
		mdw.MaxBodyBytes(lim.MaxBodyMB<<20),
		mdw.Timeout(time.Duration(lim.TimeoutSec)*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// NewAPIEngine 用户端：/api/v1 公共路由 + 登录后路由
func NewAPIEngine(d Deps) *gin.Engine {
	r := base(d)

	api := r.Group("/api/v1")
	d.Registry.MountPublic(api)

	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT), mdw.RefreshPrincipal(d.Users))
	d.Registry.MountAPI(authed)

	return r
}

// NewAdminEngine 管理端：/admin/v1 统一要求员工角色，细粒度权限在 service 判断
func NewAdminEngine(d Deps) *gin.Engine {
	r := base(d)

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWT), mdw.RefreshPrincipal(d.Users), mdw.RequirePermission(auth.CanManageCandidates))
	d.Registry.MountAdmin(admin)

	return r
}
