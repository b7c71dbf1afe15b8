package pipeline

import (
	"context"
	"sort"

	"smartess-http-service/internal/domain/models"
)

// fakeStore 是RecordStore的内存实现，按表名分发查询。
// failOn返回非nil时该次查询直接失败，用于注入存储层错误
type fakeStore struct {
	users    []models.User
	orgUsers []models.OrgUser
	projects []models.Project
	hubs     []models.Hub
	hubUsers []models.HubUser
	tickets  []models.Ticket
	alerts   []models.Alert

	failOn func(q Query) error
}

func (s *fakeStore) FindWhere(ctx context.Context, q Query, dest interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.failOn != nil {
		if err := s.failOn(q); err != nil {
			return err
		}
	}

	switch q.Table {
	case "user":
		out := dest.(*[]models.User)
		for _, u := range s.users {
			if matchAll(q.Filters, map[string]interface{}{
				"user_id": u.UserID,
				"email":   u.Email,
			}) {
				*out = append(*out, u)
			}
		}
		*out = applyLimitUsers(*out, q.Limit)
	case "org_user":
		out := dest.(*[]models.OrgUser)
		for _, ou := range s.orgUsers {
			if matchAll(q.Filters, map[string]interface{}{
				"user_id": ou.UserID,
				"org_id":  ou.OrgID,
			}) {
				*out = append(*out, ou)
			}
		}
		if q.OrderBy == "id" {
			sort.Slice(*out, func(i, j int) bool { return (*out)[i].ID < (*out)[j].ID })
		}
	case "project":
		out := dest.(*[]models.Project)
		for _, p := range s.projects {
			if matchAll(q.Filters, map[string]interface{}{
				"org_id":  p.OrgID,
				"proj_id": p.ProjID,
			}) {
				*out = append(*out, p)
			}
		}
	case "hub":
		out := dest.(*[]models.Hub)
		for _, h := range s.hubs {
			if matchAll(q.Filters, map[string]interface{}{
				"proj_id": h.ProjID,
				"hub_id":  h.HubID,
			}) {
				*out = append(*out, h)
			}
		}
		if q.OrderBy == "unit_number" {
			sort.Slice(*out, func(i, j int) bool { return (*out)[i].UnitNumber < (*out)[j].UnitNumber })
		}
	case "hub_user":
		out := dest.(*[]models.HubUser)
		for _, hu := range s.hubUsers {
			if matchAll(q.Filters, map[string]interface{}{
				"hub_id":  hu.HubID,
				"user_id": hu.UserID,
			}) {
				*out = append(*out, hu)
			}
		}
		if q.OrderBy == "user_id" {
			sort.Slice(*out, func(i, j int) bool { return (*out)[i].UserID < (*out)[j].UserID })
		}
	case "tickets":
		out := dest.(*[]models.Ticket)
		for _, t := range s.tickets {
			if matchAll(q.Filters, map[string]interface{}{
				"hub_id": t.HubID,
				"status": t.Status,
			}) {
				*out = append(*out, t)
			}
		}
	case "alerts":
		out := dest.(*[]models.Alert)
		for _, a := range s.alerts {
			if matchAll(q.Filters, map[string]interface{}{
				"hub_id": a.HubID,
				"active": a.Active,
			}) {
				*out = append(*out, a)
			}
		}
		if q.OrderBy == "created_at" && q.Descending {
			sort.Slice(*out, func(i, j int) bool { return (*out)[i].CreatedAt.After((*out)[j].CreatedAt) })
		}
		if q.Limit > 0 && len(*out) > q.Limit {
			*out = (*out)[:q.Limit]
		}
	}
	return nil
}

// matchAll 检查一行的字段值是否满足全部过滤条件
func matchAll(filters []FieldEquals, row map[string]interface{}) bool {
	for _, f := range filters {
		value, ok := row[f.Field]
		if !ok {
			return false
		}
		hit := false
		for _, candidate := range f.Values {
			if candidate == value {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func applyLimitUsers(users []models.User, limit int) []models.User {
	if limit > 0 && len(users) > limit {
		return users[:limit]
	}
	return users
}

// failTable 构造一个让指定表的所有查询失败的注入函数
func failTable(table string, err error) func(q Query) error {
	return func(q Query) error {
		if q.Table == table {
			return err
		}
		return nil
	}
}
