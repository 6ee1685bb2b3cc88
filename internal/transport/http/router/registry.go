package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// PublicModule 挂在 /api/v1 上、无需登录的路由
type PublicModule interface{ MountPublic(*gin.RouterGroup) }

// APIModule 挂在 /api/v1 鉴权分组
type APIModule interface{ MountAPI(*gin.RouterGroup) }

// AdminModule 挂在 /admin/v1（仅员工）
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂），默认 100
type prioritizer interface{ Priority() int }

// Registry 按类型断言把模块分发到各分组；由 app 组装，不做全局状态
type Registry struct {
	public []PublicModule
	api    []APIModule
	admin  []AdminModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	r.Register(mods...)
	return r
}

func (r *Registry) Register(mods ...any) {
	for _, mod := range mods {
		if m, ok := mod.(PublicModule); ok {
			r.public = append(r.public, m)
		}
		if m, ok := mod.(APIModule); ok {
			r.api = append(r.api, m)
		}
		if m, ok := mod.(AdminModule); ok {
			r.admin = append(r.admin, m)
		}
	}
}

func (r *Registry) MountPublic(g *gin.RouterGroup) {
	for _, m := range byPriority(r.public) {
		m.MountPublic(g)
	}
}

func (r *Registry) MountAPI(g *gin.RouterGroup) {
	for _, m := range byPriority(r.api) {
		m.MountAPI(g)
	}
}

func (r *Registry) MountAdmin(g *gin.RouterGroup) {
	for _, m := range byPriority(r.admin) {
		m.MountAdmin(g)
	}
}

func byPriority[M any](mods []M) []M {
	out := append([]M(nil), mods...)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityOf(out[i]) < priorityOf(out[j])
	})
	return out
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
