package models

import "time"

// Organization 表示一个物业公司（租户）
type Organization struct {
	OrgID     uint      `gorm:"column:org_id;primaryKey" json:"org_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Projects []Project `gorm:"foreignKey:OrgID;references:OrgID" json:"projects,omitempty"`
	OrgUsers []OrgUser `gorm:"foreignKey:OrgID;references:OrgID" json:"org_users,omitempty"`
}

// TableName 指定表名
func (Organization) TableName() string {
	return "organization"
}

// OrgUser 表示用户与组织的成员关系
type OrgUser struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrgID       uint      `gorm:"column:org_id;index;not null" json:"org_id"`
	UserID      uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	OrgUserType string    `gorm:"type:varchar(20);default:'admin'" json:"org_user_type"` // admin, basic
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 指定表名
func (OrgUser) TableName() string {
	return "org_user"
}
