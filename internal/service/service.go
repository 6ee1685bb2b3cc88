// Package service 业务层：权限判断、候选人可见性、分配编辑以及各资源的用例。
// 所有授权判断都经过 internal/core/auth 的权限表。
package service

import (
	"context"
	"errors"
	"time"

	"talentdesk/internal/domain"
	"talentdesk/pkg/apperrors"
)

// Clock 便于测试注入时间
type Clock func() time.Time

type clientIPKey struct{}

// WithClientIP 由 HTTP 层写入，审计日志读取
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func clientIPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// storeErr 把仓储层哨兵错误翻译成 AppError
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return apperrors.NotFound(what + " not found")
	case errors.Is(err, domain.ErrDuplicateEmail):
		return apperrors.Conflict("email already in use")
	case errors.Is(err, domain.ErrLastAdmin):
		return apperrors.Constraint("cannot remove the last admin")
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.Internal(what+" store failure", err)
}
