package services

import (
	"context"
	"fmt"

	"smartess-http-service/internal/domain/models"
	"smartess-http-service/internal/domain/services/pipeline"
	"smartess-http-service/internal/error/code"
	"smartess-http-service/internal/infrastructure/config"
)

// InterfaceWidgetService 定义仪表盘聚合服务接口
type InterfaceWidgetService interface {
	GetDashboardWidgets(ctx context.Context, email string) (*DashboardResponse, *pipeline.StageError)
}

// DashboardResponse 是仪表盘视图的响应DTO
type DashboardResponse struct {
	CompanyID      uint           `json:"companyId"`
	SystemOverview SystemOverview `json:"systemOverview"`
	Alerts         []AlertDTO     `json:"alerts"`
	SystemHealth   SystemHealth   `json:"systemHealth"`
}

// SystemOverview 是仪表盘的标量计数区
type SystemOverview struct {
	Projects        int `json:"projects"`
	TotalUnits      int `json:"totalUnits"`
	PendingTickets  int `json:"pendingTickets"`
	TotalAdminUsers int `json:"totalAdminUsers"`
}

// AlertDTO 是仪表盘告警条目，已拼接项目地址和户号标签
type AlertDTO struct {
	AlertType   string `json:"alertType"`
	UnitAddress string `json:"unitAddress"`
	UnitNumber  string `json:"unitNumber"`
}

// SystemHealth 按状态划分hub，live/disconnected以外的状态不计入任何一侧
type SystemHealth struct {
	SystemsLive int `json:"systemsLive"`
	SystemsDown int `json:"systemsDown"`
}

// 仪表盘最多展示的最近告警条数
const dashboardAlertLimit = 10

// WidgetService 提供仪表盘聚合服务
type WidgetService struct {
	resolver *pipeline.Resolver
}

// NewWidgetService 创建一个新的仪表盘服务。
// 仪表盘的hub/管理员/工单/告警查询都是整批执行，失败策略全部GLOBAL
func NewWidgetService(store pipeline.RecordStore, cfg *config.Config) InterfaceWidgetService {
	return &WidgetService{
		resolver: pipeline.NewResolver(store, pipeline.DashboardPolicy, cfg.EnrichConcurrency),
	}
}

// GetDashboardWidgets 按层级解析调用者可见的全部数据并聚合为仪表盘DTO
func (s *WidgetService) GetDashboardWidgets(ctx context.Context, email string) (*DashboardResponse, *pipeline.StageError) {
	// 身份阶段：邮箱 → 用户行。仪表盘视图把缺失用户也视为查询失败
	user, stageErr := s.resolver.ResolveUser(ctx, email)
	if stageErr != nil {
		return nil, stageErr
	}
	if user == nil {
		return nil, pipeline.NewStageError(pipeline.StageIdentity, code.ErrUserLookupFailed, pipeline.ScopeGlobal)
	}

	// 成员阶段：用户 → 组织集合。零组织在仪表盘视图是404
	orgIDs, stageErr := s.resolver.ResolveOrgIDs(ctx, user.UserID)
	if stageErr != nil {
		return nil, stageErr
	}
	if len(orgIDs) == 0 {
		return nil, pipeline.NewStageError(pipeline.StageMembership, code.ErrNoOrganizations, pipeline.ScopeGlobal)
	}

	projects, stageErr := s.resolver.ResolveProjects(ctx, orgIDs)
	if stageErr != nil {
		return nil, stageErr
	}

	projIDs := make([]uint, 0, len(projects))
	for _, p := range projects {
		projIDs = append(projIDs, p.ProjID)
	}

	hubs, stageErr := s.resolver.ResolveHubs(ctx, projIDs)
	if stageErr != nil {
		return nil, stageErr
	}

	// 系统健康度：只统计live和disconnected两种状态
	health := SystemHealth{}
	hubIDs := make([]uint, 0, len(hubs))
	for _, h := range hubs {
		hubIDs = append(hubIDs, h.HubID)
		switch h.Status {
		case models.HubStatusLive:
			health.SystemsLive++
		case models.HubStatusDisconnected:
			health.SystemsDown++
		}
	}

	adminCount, stageErr := s.resolver.CountAdminUsers(ctx, orgIDs)
	if stageErr != nil {
		return nil, stageErr
	}

	pendingCount, stageErr := s.resolver.CountPendingTickets(ctx, hubIDs)
	if stageErr != nil {
		return nil, stageErr
	}

	activeAlerts, stageErr := s.resolver.ResolveActiveAlerts(ctx, hubIDs, dashboardAlertLimit)
	if stageErr != nil {
		return nil, stageErr
	}

	return &DashboardResponse{
		// 第一个组织ID作为companyId
		CompanyID: orgIDs[0],
		SystemOverview: SystemOverview{
			Projects:        len(projects),
			TotalUnits:      len(hubs),
			PendingTickets:  pendingCount,
			TotalAdminUsers: adminCount,
		},
		Alerts:       assembleAlerts(activeAlerts, hubs, projects),
		SystemHealth: health,
	}, nil
}

// assembleAlerts 把告警按hub和项目回填地址与户号标签。
// 组装阶段不再发起查询，只塑形已解析的分支
func assembleAlerts(alerts []models.Alert, hubs []models.Hub, projects []models.Project) []AlertDTO {
	hubByID := make(map[uint]models.Hub, len(hubs))
	for _, h := range hubs {
		hubByID[h.HubID] = h
	}
	projectByID := make(map[uint]models.Project, len(projects))
	for _, p := range projects {
		projectByID[p.ProjID] = p
	}

	dtos := make([]AlertDTO, 0, len(alerts))
	for _, a := range alerts {
		hub, ok := hubByID[a.HubID]
		if !ok {
			continue
		}
		project := projectByID[hub.ProjID]
		dtos = append(dtos, AlertDTO{
			AlertType:   a.Message,
			UnitAddress: project.Address,
			UnitNumber:  fmt.Sprintf("Unit %s", hub.UnitNumber),
		})
	}
	return dtos
}
