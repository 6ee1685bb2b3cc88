package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentdesk/internal/domain"
	"talentdesk/internal/repo/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.Store {
		s, err := Open(t.TempDir())
		require.NoError(t, err)
		return s.Repos()
	})
}

func TestPasswordHashPersisted(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	u := &domain.User{ID: "u1", Email: "a@example.com", Name: "A", Role: domain.RoleClient, PasswordHash: "$2a$hash"}
	require.NoError(t, s.Repos().Users.Create(context.Background(), u))

	b, err := os.ReadFile(filepath.Join(dir, fileUsers))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"passwordHash": "$2a$hash"`)

	// 重新打开同一目录
	s2, err := Open(dir)
	require.NoError(t, err)
	got, err := s2.Repos().Users.FindByEmail(context.Background(), "A@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "$2a$hash", got.PasswordHash)
}

func TestCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileCandidates), []byte("{not json"), 0o644))
	s, err := Open(dir)
	require.NoError(t, err)
	_, err = s.Repos().Candidates.List(context.Background())
	assert.ErrorContains(t, err, "decode candidates.json")
}

func TestNoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Repos().Assignments.Upsert(context.Background(), &domain.ClientAssignment{ClientID: "c", CandidateIDs: []string{"x"}}))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fileAssignments, entries[0].Name())
}
