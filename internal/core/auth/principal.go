package auth

import (
	"context"

	"talentdesk/internal/domain"
)

// Principal 已通过 JWT 校验的请求主体
type Principal struct {
	ID    string      `json:"id"`
	Role  domain.Role `json:"role"`
	Email string      `json:"email,omitempty"`
	Name  string      `json:"name,omitempty"`
}

func (p Principal) Permissions() Permission {
	perm, _ := PermissionsFor(p.Role)
	return perm
}

func (p Principal) IsZero() bool { return p.ID == "" }

// PrincipalFromClaims 在信任边界处把 token 转成 Principal；未知角色保留原值，权限表会拒绝一切
func PrincipalFromClaims(c *Claims) Principal {
	return Principal{ID: c.UID, Role: domain.Role(c.Role), Email: c.Email, Name: c.Name}
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && !p.IsZero()
}
