package models

import "time"

// Project 表示一个楼盘/建筑项目，归属于一个组织
type Project struct {
	ProjID              uint      `gorm:"column:proj_id;primaryKey" json:"proj_id"`
	OrgID               uint      `gorm:"column:org_id;index;not null" json:"org_id"`
	Address             string    `gorm:"type:varchar(200);not null" json:"address"` // 地址不允许为空
	AdminUsersCount     int       `gorm:"default:0" json:"admin_users_count"`
	HubUsersCount       int       `gorm:"default:0" json:"hub_users_count"`
	PendingTicketsCount int       `gorm:"default:0" json:"pending_tickets_count"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	// Relations
	Organization *Organization `gorm:"foreignKey:OrgID;references:OrgID" json:"organization,omitempty"`
	Hubs         []Hub         `gorm:"foreignKey:ProjID;references:ProjID" json:"hubs,omitempty"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "project"
}
