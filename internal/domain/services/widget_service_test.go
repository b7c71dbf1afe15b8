package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartess-http-service/internal/domain/models"
	"smartess-http-service/internal/error/code"
	"smartess-http-service/internal/infrastructure/config"
)

func testConfig() *config.Config {
	return &config.Config{
		RequestTimeoutSeconds: 5,
		EnrichConcurrency:     4,
	}
}

// dashboardFixture 构造一个典型租户：一个组织、一个项目、两个hub
func dashboardFixture() *fakeStore {
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	return &fakeStore{
		users: []models.User{
			{UserID: 1, Email: "manager@example.com", FirstName: "Jan", LastName: "Levinson"},
			{UserID: 2, Email: "basic@example.com", FirstName: "Kevin", LastName: "Malone"},
		},
		orgUsers: []models.OrgUser{
			{ID: 1, UserID: 1, OrgID: 10},
			{ID: 2, UserID: 2, OrgID: 10},
		},
		projects: []models.Project{
			{ProjID: 5, OrgID: 10, Address: "123 Test St"},
		},
		hubs: []models.Hub{
			{HubID: 1, ProjID: 5, UnitNumber: "101", Status: models.HubStatusLive},
			{HubID: 2, ProjID: 5, UnitNumber: "102", Status: models.HubStatusDisconnected},
		},
		tickets: []models.Ticket{
			{TicketID: 1, HubID: 1, Status: models.TicketStatusPending},
			{TicketID: 2, HubID: 2, Status: models.TicketStatusClosed},
		},
		alerts: []models.Alert{
			{ID: 1, HubID: 1, Message: "Smoke Detected", Active: true, CreatedAt: base},
			{ID: 2, HubID: 2, Message: "Water Leak", Active: true, CreatedAt: base.Add(time.Minute)},
			{ID: 3, HubID: 1, Message: "Resolved", Active: false, CreatedAt: base.Add(2 * time.Minute)},
		},
	}
}

func TestGetDashboardWidgetsAggregates(t *testing.T) {
	svc := NewWidgetService(dashboardFixture(), testConfig())

	result, stageErr := svc.GetDashboardWidgets(context.Background(), "manager@example.com")
	require.Nil(t, stageErr)

	assert.Equal(t, uint(10), result.CompanyID)
	assert.Equal(t, 1, result.SystemOverview.Projects)
	assert.Equal(t, 2, result.SystemOverview.TotalUnits)
	assert.Equal(t, 1, result.SystemOverview.PendingTickets)
	assert.Equal(t, 2, result.SystemOverview.TotalAdminUsers)

	assert.Equal(t, 1, result.SystemHealth.SystemsLive)
	assert.Equal(t, 1, result.SystemHealth.SystemsDown)

	// 活跃告警倒序，带地址和户号标签
	require.Len(t, result.Alerts, 2)
	assert.Equal(t, "Water Leak", result.Alerts[0].AlertType)
	assert.Equal(t, "123 Test St", result.Alerts[0].UnitAddress)
	assert.Equal(t, "Unit 102", result.Alerts[0].UnitNumber)
	assert.Equal(t, "Smoke Detected", result.Alerts[1].AlertType)
	assert.Equal(t, "Unit 101", result.Alerts[1].UnitNumber)
}

func TestGetDashboardWidgetsHealthCountsOnlyLiveAndDisconnected(t *testing.T) {
	store := dashboardFixture()
	store.hubs = append(store.hubs, models.Hub{
		HubID: 3, ProjID: 5, UnitNumber: "103", Status: models.HubStatusMaintenance,
	})
	svc := NewWidgetService(store, testConfig())

	result, stageErr := svc.GetDashboardWidgets(context.Background(), "manager@example.com")
	require.Nil(t, stageErr)

	// 维护中的hub计入总数，但不进入健康统计的任何一侧
	assert.Equal(t, 3, result.SystemOverview.TotalUnits)
	assert.Equal(t, 1, result.SystemHealth.SystemsLive)
	assert.Equal(t, 1, result.SystemHealth.SystemsDown)
}

func TestGetDashboardWidgetsMissingUserIsServerError(t *testing.T) {
	svc := NewWidgetService(dashboardFixture(), testConfig())

	_, stageErr := svc.GetDashboardWidgets(context.Background(), "ghost@example.com")
	require.NotNil(t, stageErr)
	// 仪表盘视图把缺失用户当作查询失败处理
	assert.Equal(t, code.ErrUserLookupFailed, stageErr.Code)
	assert.Equal(t, 500, code.GetStatus(stageErr.Code))
	assert.Equal(t, "Failed to fetch user data.", stageErr.Message())
}

func TestGetDashboardWidgetsZeroOrgsIsNotFound(t *testing.T) {
	store := dashboardFixture()
	store.orgUsers = nil
	svc := NewWidgetService(store, testConfig())

	_, stageErr := svc.GetDashboardWidgets(context.Background(), "manager@example.com")
	require.NotNil(t, stageErr)
	assert.Equal(t, code.ErrNoOrganizations, stageErr.Code)
	assert.Equal(t, 404, code.GetStatus(stageErr.Code))
	assert.Equal(t, "No organizations found for user.", stageErr.Message())
}

func TestGetDashboardWidgetsAlertFailureAbortsRequest(t *testing.T) {
	store := dashboardFixture()
	store.failOn = failTable("alerts", errors.New("replica down"))
	svc := NewWidgetService(store, testConfig())

	_, stageErr := svc.GetDashboardWidgets(context.Background(), "manager@example.com")
	require.NotNil(t, stageErr)
	// 仪表盘的告警是整批查询，失败策略GLOBAL
	assert.Equal(t, code.ErrAlertLookupFailed, stageErr.Code)
	assert.Equal(t, "Failed to fetch alerts.", stageErr.Message())
	assert.True(t, stageErr.Global())
}

func TestGetDashboardWidgetsHubFailureAbortsRequest(t *testing.T) {
	store := dashboardFixture()
	store.failOn = failTable("hub", errors.New("replica down"))
	svc := NewWidgetService(store, testConfig())

	_, stageErr := svc.GetDashboardWidgets(context.Background(), "manager@example.com")
	require.NotNil(t, stageErr)
	assert.Equal(t, code.ErrHubLookupFailed, stageErr.Code)
}

func TestAssembleAlertsSkipsUnknownHub(t *testing.T) {
	hubs := []models.Hub{{HubID: 1, ProjID: 5, UnitNumber: "101"}}
	projects := []models.Project{{ProjID: 5, Address: "123 Test St"}}
	alerts := []models.Alert{
		{ID: 1, HubID: 1, Message: "Smoke Detected", Active: true},
		{ID: 2, HubID: 999, Message: "Orphan", Active: true},
	}

	dtos := assembleAlerts(alerts, hubs, projects)
	// 无法回填项目地址的告警在组装阶段被跳过
	require.Len(t, dtos, 1)
	assert.Equal(t, "Smoke Detected", dtos[0].AlertType)
}
