package cache

import (
	"context"
	"encoding/json"
	"time"
)

// JSON GetOrLoad 的强类型版本；缓存内容无法解码时删掉 key 并直接回源
func JSON[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		_ = c.Invalidate(ctx, key)
		return load(ctx)
	}
	return out, nil
}
