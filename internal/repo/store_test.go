package repo_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"talentdesk/internal/core/cache"
	"talentdesk/internal/core/database"
	"talentdesk/internal/domain"
	"talentdesk/internal/repo"
	"talentdesk/internal/repo/storetest"
	"talentdesk/pkg/utils"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestGormStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.Store {
		return repo.NewGormStore(openDB(t))
	})
}

func TestMigrateIdempotent(t *testing.T) {
	db := openDB(t)
	require.NoError(t, repo.Migrate(db))
	for _, table := range []string{"users", "candidates", "client_assignments", "meetings", "notifications", "audit_logs", "counters"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestCachedCandidateRepo(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	inner := repo.NewCandidateRepo(openDB(t))
	r := repo.NewCachedCandidateRepo(inner, c, time.Minute, zap.NewNop())

	mk := func(name string) *domain.Candidate {
		cand := &domain.Candidate{ID: utils.NewID(), Name: name, Email: name + "@example.com", Title: "QA", Availability: domain.AvailabilityTwoWeeks}
		cand.Normalize()
		require.NoError(t, r.Create(ctx, cand))
		return cand
	}
	a := mk("a")

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	gen, _ := mr.Get("talentdesk:candidates:gen")
	assert.Equal(t, "1", gen)
	assert.True(t, mr.Exists("talentdesk:candidates:all:v1"))

	// 绕过缓存写入，缓存仍返回旧值
	require.NoError(t, inner.Create(ctx, &domain.Candidate{ID: utils.NewID(), Name: "hidden", Email: "h@example.com", Title: "QA", Availability: domain.AvailabilityHired}))
	list, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// 经过装饰器的写操作推进代数，旧列表不再被读到
	b := mk("b")
	gen, _ = mr.Get("talentdesk:candidates:gen")
	assert.Equal(t, "2", gen)
	assert.False(t, mr.Exists("talentdesk:candidates:all:v2"))
	list, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	require.NoError(t, r.Reorder(ctx, []string{b.ID, a.ID}))
	list, err = r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, list[0].ID)

	require.NoError(t, r.Delete(ctx, a.ID))
	list, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

// racingRepo 在回源读出列表之后、返回之前执行一次 hook，模拟读写交错
type racingRepo struct {
	domain.CandidateRepository
	hook func()
}

func (r *racingRepo) List(ctx context.Context) ([]domain.Candidate, error) {
	list, err := r.CandidateRepository.List(ctx)
	if h := r.hook; h != nil {
		r.hook = nil
		h()
	}
	return list, err
}

func TestCachedCandidateRepoIgnoresStaleWriteBack(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	inner := &racingRepo{CandidateRepository: repo.NewCandidateRepo(openDB(t))}
	r := repo.NewCachedCandidateRepo(inner, c, time.Minute, zap.NewNop())

	a := &domain.Candidate{ID: utils.NewID(), Name: "a", Email: "a@example.com", Title: "QA", Availability: domain.AvailabilityTwoWeeks}
	a.Normalize()
	require.NoError(t, r.Create(ctx, a))

	// 读方拿到含 a 的旧列表后，删除提交；旧列表随后被写回缓存
	inner.hook = func() { require.NoError(t, r.Delete(ctx, a.ID)) }
	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCachedCandidateRepoFallsBackWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	r := repo.NewCachedCandidateRepo(repo.NewCandidateRepo(openDB(t)), c, time.Minute, zap.NewNop())
	mr.Close()

	a := &domain.Candidate{ID: utils.NewID(), Name: "a", Email: "a@example.com", Title: "QA", Availability: domain.AvailabilityTwoWeeks}
	a.Normalize()
	require.NoError(t, r.Create(ctx, a))
	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
