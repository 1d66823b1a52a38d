package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/taskhub/internal/domain"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/mykafka"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

func TestProjectService_MembershipScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.register(t, "owner_a", "secret1")
	b := env.register(t, "member_b", "secret1")

	p, err := env.projects.Create(ctx, a, transport.CreateProjectRequest{Name: "Apollo"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, p.OwnerID)

	_, err = env.projects.Get(ctx, b, p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	m, err := env.projects.AddMember(ctx, a, p.ID, transport.AddMemberRequest{UserID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, m.Role)

	got, err := env.projects.Get(ctx, b, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", got.Name)

	name := "Hijacked"
	_, err = env.projects.Update(ctx, b, p.ID, transport.PatchProjectRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := env.projects.List(ctx, b)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0].MembersCount)

	assert.Contains(t, env.events.types(), mykafka.EventMemberAdded)
}

func TestProjectService_AddMemberErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.register(t, "owner_a", "secret1")
	b := env.register(t, "member_b", "secret1")
	c := env.register(t, "other_c", "secret1")

	p, err := env.projects.Create(ctx, a, transport.CreateProjectRequest{Name: "Apollo"})
	require.NoError(t, err)
	_, err = env.projects.AddMember(ctx, a, p.ID, transport.AddMemberRequest{UserID: b.ID, Role: models.RoleViewer})
	require.NoError(t, err)

	tests := []struct {
		name   string
		caller *models.User
		pid    uint
		req    transport.AddMemberRequest
		want   error
	}{
		{"already member", a, p.ID, transport.AddMemberRequest{UserID: b.ID}, domain.ErrConflict},
		{"unknown user", a, p.ID, transport.AddMemberRequest{UserID: 9999}, domain.ErrNotFound},
		{"bad role", a, p.ID, transport.AddMemberRequest{UserID: c.ID, Role: "boss"}, domain.ErrValidation},
		{"member cannot manage", b, p.ID, transport.AddMemberRequest{UserID: c.ID}, domain.ErrForbidden},
		{"missing project", a, 9999, transport.AddMemberRequest{UserID: c.ID}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.projects.AddMember(ctx, tt.caller, tt.pid, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.ErrorIs(t, env.projects.RemoveMember(ctx, b, p.ID, b.ID), domain.ErrForbidden)
	require.NoError(t, env.projects.RemoveMember(ctx, a, p.ID, b.ID))
	assert.ErrorIs(t, env.projects.RemoveMember(ctx, a, p.ID, b.ID), domain.ErrNotFound)
}

func TestProjectService_UpdateStatsDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.register(t, "owner_a", "secret1")
	stranger := env.register(t, "stranger", "secret1")

	_, err := env.projects.Create(ctx, a, transport.CreateProjectRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	p, err := env.projects.Create(ctx, a, transport.CreateProjectRequest{Name: "Apollo", Description: "moon"})
	require.NoError(t, err)

	off := false
	updated, err := env.projects.Update(ctx, a, p.ID, transport.PatchProjectRequest{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "moon", updated.Description)

	_, err = env.tasks.CreateTask(ctx, a, p.ID, transport.CreateTaskRequest{Title: "one"})
	require.NoError(t, err)

	stats, err := env.projects.Stats(ctx, a, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalTasks)
	assert.EqualValues(t, 1, stats.TodoTasks)

	_, err = env.projects.Stats(ctx, stranger, p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.ErrorIs(t, env.projects.Delete(ctx, stranger, p.ID), domain.ErrForbidden)
	require.NoError(t, env.projects.Delete(ctx, a, p.ID))

	_, err = env.projects.Get(ctx, a, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
