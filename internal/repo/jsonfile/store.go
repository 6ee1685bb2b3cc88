// Package jsonfile 关系库不可用时的兜底存储：每个集合一个 JSON 文件。
// 所有写操作串行化在同一把锁下，文件通过临时文件 + rename 原子替换。
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"talentdesk/internal/domain"
)

const (
	fileUsers         = "users.json"
	fileCandidates    = "candidates.json"
	fileAssignments   = "assignments.json"
	fileMeetings      = "meetings.json"
	fileNotifications = "notifications.json"
	fileAudit         = "audit.json"
	fileCounters      = "counters.json"
)

type Store struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: create data dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Repos 以 domain.Store 形式暴露
func (s *Store) Repos() domain.Store {
	return domain.Store{
		Users:         &userRepo{s},
		Candidates:    &candidateRepo{s},
		Assignments:   &assignmentRepo{s},
		Meetings:      &meetingRepo{s},
		Notifications: &notificationRepo{s},
		Audit:         &auditRepo{s},
	}
}

// load 文件不存在视为空集合
func load[T any](s *Store, name string) ([]T, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: read %s: %w", name, err)
	}
	var out []T
	if len(b) == 0 {
		return []T{}, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("jsonfile: decode %s: %w", name, err)
	}
	return out, nil
}

func save[T any](s *Store, name string, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile: write %s: %w", name, err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: replace %s: %w", name, err)
	}
	return nil
}

func indexOf[T any](items []T, match func(*T) bool) int {
	for i := range items {
		if match(&items[i]) {
			return i
		}
	}
	return -1
}
