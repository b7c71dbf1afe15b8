package pipeline

import (
	"context"
	"sort"

	"smartess-http-service/internal/domain/models"
	"smartess-http-service/internal/error/code"
)

// Resolver 是三个视图共用的聚合管道引擎。
// 每个请求独立走一遍解析链，Resolver本身无状态，可跨请求复用。
type Resolver struct {
	Store       RecordStore
	Policy      Policy
	Concurrency int // hub扩展查询的最大并发数
}

// NewResolver 创建一个聚合管道引擎
func NewResolver(store RecordStore, policy Policy, concurrency int) *Resolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Resolver{
		Store:       store,
		Policy:      policy,
		Concurrency: concurrency,
	}
}

// 1. ResolveUser 根据邮箱解析用户行。
// 找不到用户时返回(nil, nil)，是404还是500由各视图自行决定
func (r *Resolver) ResolveUser(ctx context.Context, email string) (*models.User, *StageError) {
	var users []models.User
	err := r.Store.FindWhere(ctx, Query{
		Table:      "user",
		Filters:    []FieldEquals{Eq("email", email)},
		Projection: []string{"user_id", "email", "first_name", "last_name"},
		Limit:      1,
	}, &users)
	if err != nil {
		return nil, classify(r.Policy, StageIdentity, code.ErrUserLookupFailed, err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// 2. ResolveOrgIDs 解析用户所属的组织ID集合。
// 按成员关系创建顺序排列，第一个视为主组织。
// 空集合不是错误，是合法终态
func (r *Resolver) ResolveOrgIDs(ctx context.Context, userID uint) ([]uint, *StageError) {
	var orgUsers []models.OrgUser
	err := r.Store.FindWhere(ctx, Query{
		Table:      "org_user",
		Filters:    []FieldEquals{Eq("user_id", userID)},
		Projection: []string{"id", "org_id"},
		OrderBy:    "id",
	}, &orgUsers)
	if err != nil {
		return nil, classify(r.Policy, StageMembership, code.ErrOrgLookupFailed, err)
	}

	orgIDs := make([]uint, 0, len(orgUsers))
	seen := make(map[uint]bool)
	for _, ou := range orgUsers {
		if !seen[ou.OrgID] {
			seen[ou.OrgID] = true
			orgIDs = append(orgIDs, ou.OrgID)
		}
	}
	return orgIDs, nil
}

// 3. ResolveProjects 解析组织下的所有项目，按proj_id去重排序。
// 空输入直接返回空列表，下游计数自然为零
func (r *Resolver) ResolveProjects(ctx context.Context, orgIDs []uint) ([]models.Project, *StageError) {
	if len(orgIDs) == 0 {
		return []models.Project{}, nil
	}

	var projects []models.Project
	err := r.Store.FindWhere(ctx, Query{
		Table:   "project",
		Filters: []FieldEquals{InUint("org_id", orgIDs)},
		Projection: []string{
			"proj_id", "org_id", "address",
			"admin_users_count", "hub_users_count", "pending_tickets_count",
		},
	}, &projects)
	if err != nil {
		return nil, classify(r.Policy, StageProject, code.ErrProjectLookupFailed, err)
	}

	// 同一项目可能因多重成员关系重复出现
	deduped := make([]models.Project, 0, len(projects))
	seen := make(map[uint]bool)
	for _, p := range projects {
		if !seen[p.ProjID] {
			seen[p.ProjID] = true
			deduped = append(deduped, p)
		}
	}
	sort.Slice(deduped, func(i, j int) bool { return deduped[i].ProjID < deduped[j].ProjID })
	return deduped, nil
}

// 4. ResolveHubs 批量解析多个项目下的hub（仪表盘视图的单次批量查询）
func (r *Resolver) ResolveHubs(ctx context.Context, projIDs []uint) ([]models.Hub, *StageError) {
	if len(projIDs) == 0 {
		return []models.Hub{}, nil
	}

	var hubs []models.Hub
	err := r.Store.FindWhere(ctx, Query{
		Table:      "hub",
		Filters:    []FieldEquals{InUint("proj_id", projIDs)},
		Projection: []string{"hub_id", "unit_number", "proj_id", "status", "camera_status"},
	}, &hubs)
	if err != nil {
		return nil, classify(r.Policy, StageHub, code.ErrHubLookupFailed, err)
	}
	return hubs, nil
}

// 5. ResolveProjectHubs 解析单个项目下的hub（列表视图按项目查询，
// 失败域只覆盖该项目）
func (r *Resolver) ResolveProjectHubs(ctx context.Context, projID uint) ([]models.Hub, *StageError) {
	var hubs []models.Hub
	err := r.Store.FindWhere(ctx, Query{
		Table:      "hub",
		Filters:    []FieldEquals{Eq("proj_id", projID)},
		Projection: []string{"hub_id", "unit_number", "proj_id", "status", "camera_status"},
		OrderBy:    "unit_number",
	}, &hubs)
	if err != nil {
		return nil, classify(r.Policy, StageHub, code.ErrHubLookupFailed, err)
	}
	return hubs, nil
}

// 6. CountAdminUsers 统计组织下去重后的管理用户数（仪表盘）
func (r *Resolver) CountAdminUsers(ctx context.Context, orgIDs []uint) (int, *StageError) {
	if len(orgIDs) == 0 {
		return 0, nil
	}

	var orgUsers []models.OrgUser
	err := r.Store.FindWhere(ctx, Query{
		Table:      "org_user",
		Filters:    []FieldEquals{InUint("org_id", orgIDs)},
		Projection: []string{"user_id"},
	}, &orgUsers)
	if err != nil {
		return 0, classify(r.Policy, StageAdmin, code.ErrAdminLookupFailed, err)
	}

	seen := make(map[uint]bool)
	for _, ou := range orgUsers {
		seen[ou.UserID] = true
	}
	return len(seen), nil
}

// 7. CountPendingTickets 批量统计pending状态的工单数（仪表盘整批查询）
func (r *Resolver) CountPendingTickets(ctx context.Context, hubIDs []uint) (int, *StageError) {
	if len(hubIDs) == 0 {
		return 0, nil
	}

	var tickets []models.Ticket
	err := r.Store.FindWhere(ctx, Query{
		Table:      "tickets",
		Filters:    []FieldEquals{InUint("hub_id", hubIDs), Eq("status", models.TicketStatusPending)},
		Projection: []string{"ticket_id", "status"},
	}, &tickets)
	if err != nil {
		return 0, classify(r.Policy, StageTicket, code.ErrTicketLookupFailed, err)
	}
	return len(tickets), nil
}

// 8. ResolveActiveAlerts 批量解析最近的活跃告警，created_at倒序
func (r *Resolver) ResolveActiveAlerts(ctx context.Context, hubIDs []uint, limit int) ([]models.Alert, *StageError) {
	if len(hubIDs) == 0 {
		return []models.Alert{}, nil
	}

	var alerts []models.Alert
	err := r.Store.FindWhere(ctx, Query{
		Table:      "alerts",
		Filters:    []FieldEquals{Eq("active", true), InUint("hub_id", hubIDs)},
		Projection: []string{"id", "message", "hub_id", "created_at"},
		OrderBy:    "created_at",
		Descending: true,
		Limit:      limit,
	}, &alerts)
	if err != nil {
		return nil, classify(r.Policy, StageAlert, code.ErrAlertLookupFailed, err)
	}
	return alerts, nil
}

// 9. ResolveHubUsers 解析单个hub的成员关系
func (r *Resolver) ResolveHubUsers(ctx context.Context, hubID uint) ([]models.HubUser, *StageError) {
	var hubUsers []models.HubUser
	err := r.Store.FindWhere(ctx, Query{
		Table:      "hub_user",
		Filters:    []FieldEquals{Eq("hub_id", hubID)},
		Projection: []string{"user_id", "hub_id", "hub_user_type"},
		// 成员列表按user_id排序，保证枚举顺序稳定
		OrderBy: "user_id",
	}, &hubUsers)
	if err != nil {
		return nil, classify(r.Policy, StageHubUser, code.ErrHubUserLookupFailed, err)
	}
	return hubUsers, nil
}

// 10. ResolveUsersByIDs 批量解析用户详情（业主和其他成员的展示信息）
func (r *Resolver) ResolveUsersByIDs(ctx context.Context, stage Stage, userIDs []uint) ([]models.User, *StageError) {
	if len(userIDs) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	err := r.Store.FindWhere(ctx, Query{
		Table:      "user",
		Filters:    []FieldEquals{InUint("user_id", userIDs)},
		Projection: []string{"user_id", "first_name", "last_name", "email"},
	}, &users)
	if err != nil {
		return nil, classify(r.Policy, stage, code.ErrOwnerLookupFailed, err)
	}
	return users, nil
}

// 11. ResolveHubTickets 解析单个hub的全部工单（列表视图按hub查询）
func (r *Resolver) ResolveHubTickets(ctx context.Context, hubID uint) ([]models.Ticket, *StageError) {
	var tickets []models.Ticket
	err := r.Store.FindWhere(ctx, Query{
		Table:      "tickets",
		Filters:    []FieldEquals{Eq("hub_id", hubID)},
		Projection: []string{"ticket_id", "hub_id", "status"},
	}, &tickets)
	if err != nil {
		return nil, classify(r.Policy, StageTicket, code.ErrTicketLookupFailed, err)
	}
	return tickets, nil
}
