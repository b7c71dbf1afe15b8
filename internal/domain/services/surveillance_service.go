package services

import (
	"context"

	"smartess-http-service/internal/domain/models"
	"smartess-http-service/internal/domain/services/pipeline"
	"smartess-http-service/internal/infrastructure/config"
)

// InterfaceSurveillanceService 定义监控视图聚合服务接口
type InterfaceSurveillanceService interface {
	GetUserProjects(ctx context.Context, email string) (*SurveillanceListResponse, *pipeline.StageError)
}

// SurveillanceListResponse 是surveillance视图的响应DTO
type SurveillanceListResponse struct {
	Projects []SurveillanceProjectDTO `json:"projects"`
}

// SurveillanceProjectDTO 与units视图的项目层一致
type SurveillanceProjectDTO struct {
	ProjectID           uint                  `json:"projectId"`
	Address             string                `json:"address"`
	AdminUsersCount     int                   `json:"adminUsersCount"`
	HubUsersCount       int                   `json:"hubUsersCount"`
	PendingTicketsCount int                   `json:"pendingTicketsCount"`
	ProjectUsers        []UserDTO             `json:"projectUsers"`
	Units               []SurveillanceUnitDTO `json:"units"`
}

// SurveillanceUnitDTO 在unit层额外携带摄像头状态
type SurveillanceUnitDTO struct {
	ProjectID    uint               `json:"projectId"`
	UnitNumber   string             `json:"unitNumber"`
	CameraStatus string             `json:"cameraStatus"`
	Owner        UserDTO            `json:"owner"`
	HubUsers     []UserDTO          `json:"hubUsers"`
	Tickets      models.TicketStats `json:"tickets"`
	Alerts       []models.Alert     `json:"alerts"`
}

// SurveillanceService 提供监控视图聚合服务
type SurveillanceService struct {
	resolver *pipeline.Resolver
}

// NewSurveillanceService 创建一个新的监控视图服务，
// 失败策略与units视图相同
func NewSurveillanceService(store pipeline.RecordStore, cfg *config.Config) InterfaceSurveillanceService {
	return &SurveillanceService{
		resolver: pipeline.NewResolver(store, pipeline.ListingPolicy, cfg.EnrichConcurrency),
	}
}

// GetUserProjects 解析监控视图的项目 → unit嵌套结构，
// 与units视图共用同一条解析链，只在塑形阶段附加摄像头状态
func (s *SurveillanceService) GetUserProjects(ctx context.Context, email string) (*SurveillanceListResponse, *pipeline.StageError) {
	branches, stageErr := resolveBranches(ctx, s.resolver, email)
	if stageErr != nil {
		return nil, stageErr
	}

	projects := make([]SurveillanceProjectDTO, 0, len(branches))
	for _, branch := range branches {
		units := make([]SurveillanceUnitDTO, 0, len(branch.Units))
		for _, u := range branch.Units {
			units = append(units, SurveillanceUnitDTO{
				ProjectID:    branch.Project.ProjID,
				UnitNumber:   u.Hub.UnitNumber,
				CameraStatus: u.Hub.CameraStatus,
				Owner:        ownerDTO(u.Owner),
				HubUsers:     userDTOs(u.Members),
				Tickets:      u.Tickets,
				Alerts:       []models.Alert{},
			})
		}
		projects = append(projects, SurveillanceProjectDTO{
			ProjectID:           branch.Project.ProjID,
			Address:             branch.Project.Address,
			AdminUsersCount:     branch.Project.AdminUsersCount,
			HubUsersCount:       branch.Project.HubUsersCount,
			PendingTicketsCount: branch.Project.PendingTicketsCount,
			ProjectUsers:        []UserDTO{},
			Units:               units,
		})
	}
	return &SurveillanceListResponse{Projects: projects}, nil
}
