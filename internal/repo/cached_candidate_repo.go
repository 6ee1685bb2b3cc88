package repo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"talentdesk/internal/core/cache"
	"talentdesk/internal/domain"
)

const (
	candidateListKey = "candidates:all"
	candidateGenKey  = "candidates:gen"
)

// CachedCandidateRepo 候选人列表读穿缓存。
// 列表按代数存放，写操作提交后代数加一；写入期间被回填的旧列表落在旧代数上，不会再被读到。
type CachedCandidateRepo struct {
	domain.CandidateRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedCandidateRepo(inner domain.CandidateRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CachedCandidateRepo {
	return &CachedCandidateRepo{CandidateRepository: inner, cache: c, ttl: ttl, log: l}
}

func (r *CachedCandidateRepo) List(ctx context.Context) ([]domain.Candidate, error) {
	key, err := r.cache.VersionedKey(ctx, candidateGenKey, candidateListKey)
	if err != nil {
		r.log.Warn("candidate cache unavailable, reading store", zap.Error(err))
		return r.CandidateRepository.List(ctx)
	}
	return cache.JSON(ctx, r.cache, key, r.ttl, r.CandidateRepository.List)
}

func (r *CachedCandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	defer r.bump(ctx)
	return r.CandidateRepository.Create(ctx, c)
}

func (r *CachedCandidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	defer r.bump(ctx)
	return r.CandidateRepository.Update(ctx, c)
}

func (r *CachedCandidateRepo) Delete(ctx context.Context, id string) error {
	defer r.bump(ctx)
	return r.CandidateRepository.Delete(ctx, id)
}

func (r *CachedCandidateRepo) Reorder(ctx context.Context, ids []string) error {
	defer r.bump(ctx)
	return r.CandidateRepository.Reorder(ctx, ids)
}

func (r *CachedCandidateRepo) bump(ctx context.Context) {
	if err := r.cache.Bump(context.WithoutCancel(ctx), candidateGenKey); err != nil {
		r.log.Warn("candidate cache generation bump failed", zap.Error(err))
	}
}
