package repo

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"talentdesk/internal/domain"
)

type CandidateRepo struct{ db *gorm.DB }

func NewCandidateRepo(db *gorm.DB) *CandidateRepo { return &CandidateRepo{db: db} }

const candidateOrder = "sort_order ASC, created_at ASC, id ASC"

func (r *CandidateRepo) List(ctx context.Context) ([]domain.Candidate, error) {
	var out []domain.Candidate
	if err := r.db.WithContext(ctx).Order(candidateOrder).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CandidateRepo) FindByID(ctx context.Context, id string) (*domain.Candidate, error) {
	var c domain.Candidate
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create 计数器 + 插入同一事务，SortOrder 由这里决定
func (r *CandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextSortOrder(tx)
		if err != nil {
			return err
		}
		c.SortOrder = int(next)
		return tx.Create(c).Error
	})
}

// Update 不改 sort_order / created_at
func (r *CandidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur domain.Candidate
		if err := tx.Select("id", "sort_order", "created_at").First(&cur, "id = ?", c.ID).Error; err != nil {
			if notFound(err) {
				return domain.ErrNotFound
			}
			return err
		}
		c.SortOrder, c.CreatedAt = cur.SortOrder, cur.CreatedAt
		return tx.Model(&domain.Candidate{}).
			Where("id = ?", c.ID).
			Select("*").
			Omit("id", "sort_order", "created_at").
			Updates(c).Error
	})
}

// Delete 级联：删会议，并从每条分配里摘掉
func (r *CandidateRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&domain.Candidate{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Where("candidate_id = ?", id).Delete(&domain.Meeting{}).Error; err != nil {
			return err
		}
		var as []domain.ClientAssignment
		if err := forUpdate(tx).Find(&as).Error; err != nil {
			return err
		}
		for i := range as {
			if !as[i].Without(id) {
				continue
			}
			if err := tx.Model(&domain.ClientAssignment{}).
				Where("client_id = ?", as[i].ClientID).
				UpdateColumn("candidate_ids", as[i].CandidateIDs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Reorder ids 依次写 0..n-1，未列出的按原顺序接在后面
func (r *CandidateRepo) Reorder(ctx context.Context, ids []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []string
		if err := forUpdate(tx.Model(&domain.Candidate{})).Order(candidateOrder).Pluck("id", &current).Error; err != nil {
			return err
		}
		final, err := mergeOrder(current, ids)
		if err != nil {
			return err
		}
		for i, id := range final {
			if err := tx.Model(&domain.Candidate{}).Where("id = ?", id).UpdateColumn("sort_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// mergeOrder 校验 ids 都存在且不重复，返回完整顺序
func mergeOrder(current, ids []string) ([]string, error) {
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	seen := make(map[string]bool, len(ids))
	final := make([]string, 0, len(current))
	for _, id := range ids {
		if !known[id] {
			return nil, fmt.Errorf("candidate %q: %w", id, domain.ErrNotFound)
		}
		if seen[id] {
			return nil, fmt.Errorf("candidate %q listed twice", id)
		}
		seen[id] = true
		final = append(final, id)
	}
	for _, id := range current {
		if !seen[id] {
			final = append(final, id)
		}
	}
	return final, nil
}

// nextSortOrder next = max(高水位, 现存最大值) + 1；计数器只增不减
func nextSortOrder(tx *gorm.DB) (int64, error) {
	var maxExisting sql.NullInt64
	if err := tx.Model(&domain.Candidate{}).Select("MAX(sort_order)").Row().Scan(&maxExisting); err != nil {
		return 0, err
	}
	m := int64(-1)
	if maxExisting.Valid {
		m = maxExisting.Int64
	}

	bump := func() (int64, error) {
		res := tx.Model(&counter{}).
			Where("name = ?", sortOrderCounter).
			UpdateColumn("seq", gorm.Expr("CASE WHEN seq > ? THEN seq ELSE ? END + 1", m, m))
		return res.RowsAffected, res.Error
	}

	n, err := bump()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		c := counter{Name: sortOrderCounter, Seq: m + 1}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&c)
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 1 {
			return c.Seq, nil
		}
		// 另一个事务刚建好计数器
		if _, err := bump(); err != nil {
			return 0, err
		}
	}
	var c counter
	if err := tx.First(&c, "name = ?", sortOrderCounter).Error; err != nil {
		return 0, err
	}
	return c.Seq, nil
}
