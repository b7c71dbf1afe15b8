package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"smartess-http-service/internal/domain/models"
	"smartess-http-service/pkg/logger"
)

// UnitEnrichment 是单个hub扩展查询后的完整分支
type UnitEnrichment struct {
	Hub     models.Hub
	Owner   *models.User  // nil表示无业主或业主信息已降级
	Members []models.User // owner以外的成员
	Tickets models.TicketStats
}

// ProjectBranch 是单个项目及其存活下来的unit分支
type ProjectBranch struct {
	Project models.Project
	Units   []UnitEnrichment
}

// EnrichHub 对单个hub执行扩展查询：成员关系、业主详情、成员详情、工单汇总。
// 成员关系或工单查询失败时返回StageError，由调用方按策略决定丢弃范围；
// 业主/成员详情查询失败在LOCAL策略下就地降级，不向上传播
func (r *Resolver) EnrichHub(ctx context.Context, hub models.Hub) (*UnitEnrichment, *StageError) {
	hubUsers, stageErr := r.ResolveHubUsers(ctx, hub.HubID)
	if stageErr != nil {
		return nil, stageErr
	}

	enriched := &UnitEnrichment{Hub: hub, Members: []models.User{}}

	// 业主、成员详情与工单汇总相互独立，可并发执行
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tickets, err := r.ResolveHubTickets(gctx, hub.HubID)
		if err != nil {
			return err
		}
		enriched.Tickets = models.CountTickets(tickets)
		return nil
	})

	g.Go(func() error {
		var ownerID *uint
		memberIDs := make([]uint, 0, len(hubUsers))
		for i := range hubUsers {
			if hubUsers[i].HubUserType == "owner" {
				if ownerID == nil {
					ownerID = &hubUsers[i].UserID
				}
			} else {
				memberIDs = append(memberIDs, hubUsers[i].UserID)
			}
		}

		if ownerID != nil {
			owners, err := r.ResolveUsersByIDs(gctx, StageOwner, []uint{*ownerID})
			if err != nil {
				if err.Global() {
					return err
				}
				// 业主详情降级为空占位，不丢弃unit
				logger.Warning("业主详情查询失败，降级为空: hub_id=%d err=%v", hub.HubID, err)
			} else if len(owners) > 0 {
				enriched.Owner = &owners[0]
			}
		}

		if len(memberIDs) > 0 {
			members, err := r.ResolveUsersByIDs(gctx, StageHubUser, memberIDs)
			if err != nil {
				if err.Global() {
					return err
				}
				// 成员详情降级为空列表，unit本身保留
				logger.Warning("成员详情查询失败，降级为空: hub_id=%d err=%v", hub.HubID, err)
				return nil
			}
			enriched.Members = members
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if stageErr, ok := err.(*StageError); ok {
			return nil, stageErr
		}
		return nil, &StageError{Stage: StageHub, Scope: ScopeGlobal, Err: err}
	}
	return enriched, nil
}

// EnrichHubs 对一批hub并发执行扩展查询，并发度受限。
// LOCAL失败只丢弃对应hub并记录日志；GLOBAL失败终止整批
func (r *Resolver) EnrichHubs(ctx context.Context, hubs []models.Hub) ([]UnitEnrichment, *StageError) {
	if len(hubs) == 0 {
		return []UnitEnrichment{}, nil
	}

	results := make([]*UnitEnrichment, len(hubs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Concurrency)

	for i := range hubs {
		i := i
		g.Go(func() error {
			enriched, stageErr := r.EnrichHub(gctx, hubs[i])
			if stageErr != nil {
				if stageErr.Global() {
					return stageErr
				}
				// 丢弃该unit，兄弟分支继续
				logger.Warning("hub扩展查询失败，丢弃unit: hub_id=%d err=%v", hubs[i].HubID, stageErr)
				return nil
			}
			results[i] = enriched
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if stageErr, ok := err.(*StageError); ok {
			return nil, stageErr
		}
		return nil, &StageError{Stage: StageHub, Scope: ScopeGlobal, Err: err}
	}

	// 保持hub原有顺序，静默跳过被丢弃的分支
	units := make([]UnitEnrichment, 0, len(hubs))
	for _, u := range results {
		if u != nil {
			units = append(units, *u)
		}
	}
	return units, nil
}

// ResolveProjectTree 解析列表视图的完整嵌套结构：项目 → hub → 扩展数据。
// 单个项目的hub查询失败时丢弃该项目（LOCAL策略），其余项目继续
func (r *Resolver) ResolveProjectTree(ctx context.Context, projects []models.Project) ([]ProjectBranch, *StageError) {
	branches := make([]ProjectBranch, 0, len(projects))
	for _, project := range projects {
		hubs, stageErr := r.ResolveProjectHubs(ctx, project.ProjID)
		if stageErr != nil {
			if stageErr.Global() {
				return nil, stageErr
			}
			logger.Warning("项目hub查询失败，丢弃项目: proj_id=%d err=%v", project.ProjID, stageErr)
			continue
		}

		units, stageErr := r.EnrichHubs(ctx, hubs)
		if stageErr != nil {
			return nil, stageErr
		}

		branches = append(branches, ProjectBranch{Project: project, Units: units})
	}
	return branches, nil
}
