package repo

import (
	"context"

	"gorm.io/gorm"

	"talentdesk/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, role domain.Role) ([]domain.User, error) {
	var users []domain.User
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Order("created_at ASC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

// Update 整行保存；把最后一个 admin 降级会被拒绝
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur domain.User
		if err := tx.First(&cur, "id = ?", u.ID).Error; err != nil {
			if notFound(err) {
				return domain.ErrNotFound
			}
			return err
		}
		if cur.Role == domain.RoleAdmin && u.Role != domain.RoleAdmin {
			if err := ensureOtherAdmin(tx, cur.ID); err != nil {
				return err
			}
		}
		u.CreatedAt = cur.CreatedAt
		if err := tx.Save(u).Error; err != nil {
			if isDupKey(err) {
				return domain.ErrDuplicateEmail
			}
			return err
		}
		return nil
	})
}

// Delete 同一事务内：检查 admin 数量 → 删分配/会议/通知 → 删用户
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur domain.User
		if err := tx.First(&cur, "id = ?", id).Error; err != nil {
			if notFound(err) {
				return domain.ErrNotFound
			}
			return err
		}
		if cur.Role == domain.RoleAdmin {
			if err := ensureOtherAdmin(tx, cur.ID); err != nil {
				return err
			}
		}
		if err := tx.Where("client_id = ?", id).Delete(&domain.ClientAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&domain.Meeting{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Notification{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.User{}).Error
	})
}

// ensureOtherAdmin 锁住 admin 行，确认除 exceptID 外至少还有一个
func ensureOtherAdmin(tx *gorm.DB, exceptID string) error {
	var ids []string
	if err := forUpdate(tx.Model(&domain.User{})).
		Where("role = ?", domain.RoleAdmin).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	for _, id := range ids {
		if id != exceptID {
			return nil
		}
	}
	return domain.ErrLastAdmin
}
