package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"talentdesk/internal/core/validate"
	"talentdesk/internal/domain"
	"talentdesk/internal/repo/jsonfile"
	"talentdesk/pkg/apperrors"
	"talentdesk/pkg/utils"
)

func TestLastAdminCannotBeDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	requireCode(t, f.users.Delete(ctx, f.admin, f.admin.ID), apperrors.CodeConstraint)

	second, err := f.users.Create(ctx, f.admin, UserInput{Name: "Second", Email: "second@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.NoError(t, f.users.Delete(ctx, f.admin, second.ID))

	n, err := f.store.Users.CountByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestLastAdminCannotBeDemoted(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Update(context.Background(), f.admin, f.admin.ID, UserPatch{Role: ptr(domain.RoleClient)})
	requireCode(t, err, apperrors.CodeConstraint)
}

func TestOnlyAdminsDeleteUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requireCode(t, f.users.Delete(ctx, f.cs, f.client.ID), apperrors.CodeForbidden)
	requireCode(t, f.users.Delete(ctx, f.client, f.client.ID), apperrors.CodeForbidden)
	requireCode(t, f.users.Delete(ctx, f.admin, "ghost"), apperrors.CodeNotFound)
	require.NoError(t, f.users.Delete(ctx, f.admin, f.client.ID))
}

func TestCustomerServiceManagesClientsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleCustomerService} {
		_, err := f.users.Create(ctx, f.cs, UserInput{Name: "x", Email: string(role) + "@new.test", Role: role})
		requireCode(t, err, apperrors.CodeForbidden)
	}
	all, err := f.users.List(ctx, f.cs, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	u, err := f.users.Create(ctx, f.cs, UserInput{
		Name: "Acme", Email: " Buyer@Acme.test ", Role: domain.RoleClient, HiringNeeds: "3 agents",
	})
	require.NoError(t, err)
	assert.Equal(t, "buyer@acme.test", u.Email)
	assert.Equal(t, "3 agents", u.HiringNeeds)

	_, err = f.users.Update(ctx, f.cs, u.ID, UserPatch{Role: ptr(domain.RoleAdmin)})
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = f.users.Update(ctx, f.cs, f.admin.ID, UserPatch{Name: ptr("hijack")})
	requireCode(t, err, apperrors.CodeForbidden)

	upd, err := f.users.Update(ctx, f.cs, u.ID, UserPatch{Name: ptr("Acme Ltd"), SoftwareStack: ptr("Zendesk")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", upd.Name)
	assert.Equal(t, "Zendesk", upd.SoftwareStack)
	assert.Equal(t, "3 agents", upd.HiringNeeds)
}

func TestAdminPromotesClientAndQuestionnaireIsDropped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.users.Create(ctx, f.admin, UserInput{Name: "Acme", Email: "acme@new.test", Role: domain.RoleClient, HiringNeeds: "x"})
	require.NoError(t, err)

	upd, err := f.users.Update(ctx, f.admin, u.ID, UserPatch{Role: ptr(domain.RoleCustomerService)})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomerService, upd.Role)
	assert.Empty(t, upd.HiringNeeds)

	staff, err := f.users.Create(ctx, f.admin, UserInput{Name: "Ops", Email: "ops@new.test", Role: domain.RoleAdmin, HiringNeeds: "ignored"})
	require.NoError(t, err)
	assert.Empty(t, staff.HiringNeeds)
}

func TestCreateUserErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Create(ctx, f.admin, UserInput{Name: "dup", Email: "CLIENT@example.com", Role: domain.RoleClient})
	requireCode(t, err, apperrors.CodeAlreadyExists)

	_, err = f.users.Create(ctx, f.admin, UserInput{Name: "x", Email: "x@new.test", Role: "owner"})
	requireCode(t, err, apperrors.CodeValidationFailed)

	_, err = f.users.Create(ctx, f.admin, UserInput{Email: "x@new.test", Role: domain.RoleClient})
	requireCode(t, err, apperrors.CodeValidationFailed)

	_, err = f.users.Create(ctx, f.client, UserInput{Name: "x", Email: "x@new.test", Role: domain.RoleClient})
	requireCode(t, err, apperrors.CodeForbidden)

	_, err = f.users.Update(ctx, f.admin, f.client.ID, UserPatch{Email: ptr("cs@example.com")})
	requireCode(t, err, apperrors.CodeAlreadyExists)
}

func TestListUsersByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	clients, err := f.users.List(ctx, f.admin, domain.RoleClient)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, f.client.ID, clients[0].ID)

	_, err = f.users.List(ctx, f.admin, "owner")
	requireCode(t, err, apperrors.CodeValidationFailed)
	_, err = f.users.List(ctx, f.client, "")
	requireCode(t, err, apperrors.CodeForbidden)

	me, err := f.users.Get(ctx, f.client, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, f.client.Email, me.Email)
	_, err = f.users.Get(ctx, f.client, f.admin.ID)
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	js, err := jsonfile.Open(t.TempDir())
	require.NoError(t, err)
	st := js.Repos()
	users := NewUserService(st.Users, validate.New(), NewAuditService(st.Audit, zap.NewNop(), time.Now), zap.NewNop())

	_, err = users.SeedAdmin(ctx, "root@example.com", "Root", "short")
	requireCode(t, err, apperrors.CodeValidationFailed)

	created, err := users.SeedAdmin(ctx, "Root@Example.com", "Root", "changeme123")
	require.NoError(t, err)
	assert.True(t, created)

	u, err := st.Users.FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.True(t, utils.CheckPassword("changeme123", u.PasswordHash))

	created, err = users.SeedAdmin(ctx, "other@example.com", "Other", "changeme123")
	require.NoError(t, err)
	assert.False(t, created)
}
