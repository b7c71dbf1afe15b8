package services

import (
	"context"
	"strconv"

	"smartess-http-service/internal/domain/models"
	"smartess-http-service/internal/domain/services/pipeline"
	"smartess-http-service/internal/error/code"
	"smartess-http-service/internal/infrastructure/config"
)

// InterfaceUnitsService 定义unit列表聚合服务接口
type InterfaceUnitsService interface {
	GetUserProjects(ctx context.Context, email string) (*ProjectListResponse, *pipeline.StageError)
}

// ProjectListResponse 是units视图的响应DTO
type ProjectListResponse struct {
	Projects []ProjectDTO `json:"projects"`
}

// ProjectDTO 是嵌套结构的项目层
type ProjectDTO struct {
	ProjectID           uint      `json:"projectId"`
	Address             string    `json:"address"`
	AdminUsersCount     int       `json:"adminUsersCount"`
	HubUsersCount       int       `json:"hubUsersCount"`
	PendingTicketsCount int       `json:"pendingTicketsCount"`
	ProjectUsers        []UserDTO `json:"projectUsers"`
	Units               []UnitDTO `json:"units"`
}

// UnitDTO 是嵌套结构的unit层
type UnitDTO struct {
	ProjectID  uint               `json:"projectId"`
	UnitNumber string             `json:"unitNumber"`
	Owner      UserDTO            `json:"owner"`
	HubUsers   []UserDTO          `json:"hubUsers"`
	Tickets    models.TicketStats `json:"tickets"`
	Alerts     []models.Alert     `json:"alerts"`
}

// UserDTO 是展示用的用户信息。
// 业主缺失或降级时所有字段为空字符串占位
type UserDTO struct {
	TokenID   string `json:"tokenId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// UnitsService 提供unit列表聚合服务
type UnitsService struct {
	resolver *pipeline.Resolver
}

// NewUnitsService 创建一个新的unit列表服务。
// 列表视图按项目/按hub查询，失败只丢弃对应分支
func NewUnitsService(store pipeline.RecordStore, cfg *config.Config) InterfaceUnitsService {
	return &UnitsService{
		resolver: pipeline.NewResolver(store, pipeline.ListingPolicy, cfg.EnrichConcurrency),
	}
}

// GetUserProjects 解析调用者可见的项目 → unit嵌套结构
func (s *UnitsService) GetUserProjects(ctx context.Context, email string) (*ProjectListResponse, *pipeline.StageError) {
	branches, stageErr := resolveBranches(ctx, s.resolver, email)
	if stageErr != nil {
		return nil, stageErr
	}

	projects := make([]ProjectDTO, 0, len(branches))
	for _, branch := range branches {
		projects = append(projects, ProjectDTO{
			ProjectID:           branch.Project.ProjID,
			Address:             branch.Project.Address,
			AdminUsersCount:     branch.Project.AdminUsersCount,
			HubUsersCount:       branch.Project.HubUsersCount,
			PendingTicketsCount: branch.Project.PendingTicketsCount,
			ProjectUsers:        []UserDTO{},
			Units:               assembleUnits(branch),
		})
	}
	return &ProjectListResponse{Projects: projects}, nil
}

// resolveBranches 执行身份 → 成员 → 项目 → unit树的公共链路，
// units和surveillance两个视图共用
func resolveBranches(ctx context.Context, resolver *pipeline.Resolver, email string) ([]pipeline.ProjectBranch, *pipeline.StageError) {
	user, stageErr := resolver.ResolveUser(ctx, email)
	if stageErr != nil {
		return nil, stageErr
	}
	// 列表视图把缺失用户视为404
	if user == nil {
		return nil, pipeline.NewStageError(pipeline.StageIdentity, code.ErrUserNotFound, pipeline.ScopeGlobal)
	}

	orgIDs, stageErr := resolver.ResolveOrgIDs(ctx, user.UserID)
	if stageErr != nil {
		return nil, stageErr
	}
	// 零组织在列表视图是合法终态：返回空项目列表
	if len(orgIDs) == 0 {
		return []pipeline.ProjectBranch{}, nil
	}

	projects, stageErr := resolver.ResolveProjects(ctx, orgIDs)
	if stageErr != nil {
		return nil, stageErr
	}

	return resolver.ResolveProjectTree(ctx, projects)
}

// assembleUnits 把存活的unit分支塑形为DTO
func assembleUnits(branch pipeline.ProjectBranch) []UnitDTO {
	units := make([]UnitDTO, 0, len(branch.Units))
	for _, u := range branch.Units {
		units = append(units, UnitDTO{
			ProjectID:  branch.Project.ProjID,
			UnitNumber: u.Hub.UnitNumber,
			Owner:      ownerDTO(u.Owner),
			HubUsers:   userDTOs(u.Members),
			Tickets:    u.Tickets,
			Alerts:     []models.Alert{},
		})
	}
	return units
}

// ownerDTO 把业主行转为DTO，缺失时返回空占位
func ownerDTO(owner *models.User) UserDTO {
	if owner == nil {
		return UserDTO{}
	}
	return UserDTO{
		TokenID:   strconv.FormatUint(uint64(owner.UserID), 10),
		FirstName: owner.FirstName,
		LastName:  owner.LastName,
		Email:     owner.Email,
	}
}

// userDTOs 把成员行批量转为DTO
func userDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, UserDTO{
			TokenID:   strconv.FormatUint(uint64(u.UserID), 10),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
		})
	}
	return dtos
}
