package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartess-http-service/internal/domain/models"
	"smartess-http-service/internal/error/code"
)

func newTestResolver(store RecordStore, policy Policy) *Resolver {
	return NewResolver(store, policy, 4)
}

func TestResolveUserFound(t *testing.T) {
	store := &fakeStore{
		users: []models.User{
			{UserID: 7, Email: "dwight@example.com", FirstName: "Dwight", LastName: "Schrute"},
		},
	}
	r := newTestResolver(store, DashboardPolicy)

	user, stageErr := r.ResolveUser(context.Background(), "dwight@example.com")
	require.Nil(t, stageErr)
	require.NotNil(t, user)
	assert.Equal(t, uint(7), user.UserID)
}

func TestResolveUserMissingIsNotError(t *testing.T) {
	r := newTestResolver(&fakeStore{}, DashboardPolicy)

	user, stageErr := r.ResolveUser(context.Background(), "ghost@example.com")
	assert.Nil(t, stageErr)
	assert.Nil(t, user)
}

func TestResolveUserStoreFailure(t *testing.T) {
	store := &fakeStore{failOn: failTable("user", errors.New("connection refused"))}
	r := newTestResolver(store, DashboardPolicy)

	_, stageErr := r.ResolveUser(context.Background(), "dwight@example.com")
	require.NotNil(t, stageErr)
	assert.Equal(t, StageIdentity, stageErr.Stage)
	assert.Equal(t, code.ErrUserLookupFailed, stageErr.Code)
	assert.True(t, stageErr.Global())
}

func TestResolveOrgIDsDedupesAndKeepsOrder(t *testing.T) {
	store := &fakeStore{
		orgUsers: []models.OrgUser{
			{ID: 3, UserID: 7, OrgID: 20},
			{ID: 1, UserID: 7, OrgID: 10},
			{ID: 2, UserID: 7, OrgID: 20},
			{ID: 4, UserID: 8, OrgID: 30},
		},
	}
	r := newTestResolver(store, DashboardPolicy)

	orgIDs, stageErr := r.ResolveOrgIDs(context.Background(), 7)
	require.Nil(t, stageErr)
	// 按成员关系创建顺序，重复组织只保留首次出现
	assert.Equal(t, []uint{10, 20}, orgIDs)
}

func TestResolveOrgIDsEmptyIsValid(t *testing.T) {
	r := newTestResolver(&fakeStore{}, DashboardPolicy)

	orgIDs, stageErr := r.ResolveOrgIDs(context.Background(), 7)
	assert.Nil(t, stageErr)
	assert.Empty(t, orgIDs)
}

func TestResolveProjectsDedupesAndSorts(t *testing.T) {
	store := &fakeStore{
		projects: []models.Project{
			{ProjID: 5, OrgID: 10, Address: "5 Oak Ave"},
			{ProjID: 2, OrgID: 10, Address: "2 Elm St"},
			{ProjID: 5, OrgID: 20, Address: "5 Oak Ave"},
		},
	}
	r := newTestResolver(store, DashboardPolicy)

	projects, stageErr := r.ResolveProjects(context.Background(), []uint{10, 20})
	require.Nil(t, stageErr)
	require.Len(t, projects, 2)
	assert.Equal(t, uint(2), projects[0].ProjID)
	assert.Equal(t, uint(5), projects[1].ProjID)
}

func TestResolveProjectsEmptyInput(t *testing.T) {
	store := &fakeStore{failOn: failTable("project", errors.New("should not be queried"))}
	r := newTestResolver(store, DashboardPolicy)

	projects, stageErr := r.ResolveProjects(context.Background(), nil)
	assert.Nil(t, stageErr)
	assert.Empty(t, projects)
}

func TestCountAdminUsersDedupesAcrossOrgs(t *testing.T) {
	store := &fakeStore{
		orgUsers: []models.OrgUser{
			{ID: 1, UserID: 7, OrgID: 10},
			{ID: 2, UserID: 7, OrgID: 20},
			{ID: 3, UserID: 8, OrgID: 10},
		},
	}
	r := newTestResolver(store, DashboardPolicy)

	count, stageErr := r.CountAdminUsers(context.Background(), []uint{10, 20})
	require.Nil(t, stageErr)
	// 用户7在两个组织中出现，仍只计一次
	assert.Equal(t, 2, count)
}

func TestCountPendingTicketsFiltersStatus(t *testing.T) {
	store := &fakeStore{
		tickets: []models.Ticket{
			{TicketID: 1, HubID: 1, Status: models.TicketStatusPending},
			{TicketID: 2, HubID: 1, Status: models.TicketStatusOpen},
			{TicketID: 3, HubID: 2, Status: models.TicketStatusPending},
			{TicketID: 4, HubID: 99, Status: models.TicketStatusPending},
		},
	}
	r := newTestResolver(store, DashboardPolicy)

	count, stageErr := r.CountPendingTickets(context.Background(), []uint{1, 2})
	require.Nil(t, stageErr)
	assert.Equal(t, 2, count)
}

func TestResolveActiveAlertsOrderAndLimit(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{
		alerts: []models.Alert{
			{ID: 1, HubID: 1, Message: "smoke", Active: true, CreatedAt: base},
			{ID: 2, HubID: 1, Message: "water", Active: true, CreatedAt: base.Add(time.Hour)},
			{ID: 3, HubID: 1, Message: "stale", Active: false, CreatedAt: base.Add(2 * time.Hour)},
			{ID: 4, HubID: 2, Message: "co2", Active: true, CreatedAt: base.Add(3 * time.Hour)},
		},
	}
	r := newTestResolver(store, DashboardPolicy)

	alerts, stageErr := r.ResolveActiveAlerts(context.Background(), []uint{1, 2}, 2)
	require.Nil(t, stageErr)
	require.Len(t, alerts, 2)
	// created_at倒序，非active的不出现
	assert.Equal(t, "co2", alerts[0].Message)
	assert.Equal(t, "water", alerts[1].Message)
}

func TestResolveHubUsersOrdersByUserID(t *testing.T) {
	store := &fakeStore{
		hubUsers: []models.HubUser{
			{ID: 1, HubID: 1, UserID: 9, HubUserType: "basic"},
			{ID: 2, HubID: 1, UserID: 3, HubUserType: "owner"},
			{ID: 3, HubID: 2, UserID: 1, HubUserType: "basic"},
		},
	}
	r := newTestResolver(store, ListingPolicy)

	hubUsers, stageErr := r.ResolveHubUsers(context.Background(), 1)
	require.Nil(t, stageErr)
	require.Len(t, hubUsers, 2)
	// 按user_id升序，与入库顺序无关
	assert.Equal(t, uint(3), hubUsers[0].UserID)
	assert.Equal(t, uint(9), hubUsers[1].UserID)
}

func TestClassifyTimeoutIsAlwaysGlobal(t *testing.T) {
	// hub_user在列表策略下是LOCAL，但超时必须升级为GLOBAL
	stageErr := classify(ListingPolicy, StageHubUser, code.ErrHubUserLookupFailed, context.DeadlineExceeded)
	assert.Equal(t, code.ErrTimeout, stageErr.Code)
	assert.True(t, stageErr.Global())

	stageErr = classify(ListingPolicy, StageHubUser, code.ErrHubUserLookupFailed, context.Canceled)
	assert.Equal(t, code.ErrTimeout, stageErr.Code)
	assert.True(t, stageErr.Global())
}

func TestClassifyRespectsPolicyScope(t *testing.T) {
	err := errors.New("connection reset")

	local := classify(ListingPolicy, StageHubUser, code.ErrHubUserLookupFailed, err)
	assert.False(t, local.Global())
	assert.Equal(t, code.ErrHubUserLookupFailed, local.Code)

	global := classify(DashboardPolicy, StageTicket, code.ErrTicketLookupFailed, err)
	assert.True(t, global.Global())
}

func TestScopeOfDefaultsToGlobal(t *testing.T) {
	// 未声明的阶段一律GLOBAL
	assert.Equal(t, ScopeGlobal, ListingPolicy.ScopeOf(StageIdentity))
	assert.Equal(t, ScopeGlobal, ListingPolicy.ScopeOf(StageMembership))
	assert.Equal(t, ScopeLocal, ListingPolicy.ScopeOf(StageOwner))
}

func TestStageErrorMessageMatchesWireContract(t *testing.T) {
	stageErr := NewStageError(StageProject, code.ErrProjectLookupFailed, ScopeGlobal)
	assert.Equal(t, "Failed to fetch projects.", stageErr.Message())

	stageErr = NewStageError(StageMembership, code.ErrNoOrganizations, ScopeGlobal)
	assert.Equal(t, "No organizations found for user.", stageErr.Message())
}
