package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// 代数计数器：写方提交后 Bump，读方把代数拼进 key。
// 写入期间回源得到的旧数据落在旧代数的 key 上，之后不会再被读到，只等 TTL 过期。

// Generation key 不存在视为 0
func (c *Cache) Generation(ctx context.Context, name string) (int64, error) {
	n, err := c.RDB.Get(ctx, c.key(name)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (c *Cache) Bump(ctx context.Context, name string) error {
	return c.RDB.Incr(ctx, c.key(name)).Err()
}

// VersionedKey 当前代数下的数据 key
func (c *Cache) VersionedKey(ctx context.Context, name, base string) (string, error) {
	gen, err := c.Generation(ctx, name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", base, gen), nil
}
