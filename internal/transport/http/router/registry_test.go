package router

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type recMod struct {
	name string
	prio int
	seen *[]string
}

func (m recMod) MountAPI(*gin.RouterGroup)   { *m.seen = append(*m.seen, "api:"+m.name) }
func (m recMod) MountAdmin(*gin.RouterGroup) { *m.seen = append(*m.seen, "admin:"+m.name) }
func (m recMod) Priority() int               { return m.prio }

type publicOnly struct{ seen *[]string }

func (m publicOnly) MountPublic(*gin.RouterGroup) { *m.seen = append(*m.seen, "public") }

func TestRegistryDispatchesByPriority(t *testing.T) {
	var seen []string
	r := NewRegistry(
		recMod{name: "late", prio: 200, seen: &seen},
		recMod{name: "early", prio: 1, seen: &seen},
		publicOnly{seen: &seen},
	)
	g := gin.New().Group("/")

	r.MountPublic(g)
	r.MountAPI(g)
	r.MountAdmin(g)

	assert.Equal(t, []string{"public", "api:early", "api:late", "admin:early", "admin:late"}, seen)
}
