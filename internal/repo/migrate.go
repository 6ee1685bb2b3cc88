package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"talentdesk/internal/domain"
)

// counter 单调计数器（候选人 sort_order 高水位）
type counter struct {
	Name string `gorm:"primaryKey;size:64"`
	Seq  int64  `gorm:"not null;default:0"`
}

func (counter) TableName() string { return "counters" }

const sortOrderCounter = "candidate_sort_order"

// Models 需要迁移的全部表
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Candidate{},
		&domain.ClientAssignment{},
		&domain.Meeting{},
		&domain.Notification{},
		&domain.AuditLog{},
		&counter{},
	}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }

func notFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免方言差异
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

// forUpdate sqlite 不支持 FOR UPDATE（本身单写者），其它方言加行锁
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
