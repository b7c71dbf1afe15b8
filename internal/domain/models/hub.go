package models

import "time"

// hub状态取值由存储侧定义，常见值如下（开放枚举，可能出现其他值）
const (
	HubStatusLive         = "live"
	HubStatusDisconnected = "disconnected"
	HubStatusMaintenance  = "maintenance"
)

// Hub 表示项目下的一个户号单元（unit）
type Hub struct {
	HubID        uint      `gorm:"column:hub_id;primaryKey" json:"hub_id"`
	ProjID       uint      `gorm:"column:proj_id;index;not null" json:"proj_id"`
	UnitNumber   string    `gorm:"type:varchar(50);not null" json:"unit_number"` // 户号编号，如"101"
	Status       string    `gorm:"type:varchar(20);default:'live'" json:"status"`
	CameraStatus string    `gorm:"type:varchar(20);default:'offline'" json:"camera_status"` // 监控摄像头状态
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Project  *Project  `gorm:"foreignKey:ProjID;references:ProjID" json:"project,omitempty"`
	HubUsers []HubUser `gorm:"foreignKey:HubID;references:HubID" json:"hub_users,omitempty"`
	Tickets  []Ticket  `gorm:"foreignKey:HubID;references:HubID" json:"tickets,omitempty"`
	Alerts   []Alert   `gorm:"foreignKey:HubID;references:HubID" json:"alerts,omitempty"`
}

// TableName 指定表名
func (Hub) TableName() string {
	return "hub"
}

// HubUser 表示用户与hub的成员关系，owner类型用于展示业主信息
type HubUser struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	HubID       uint      `gorm:"column:hub_id;uniqueIndex:idx_hub_user;not null" json:"hub_id"`
	UserID      uint      `gorm:"column:user_id;uniqueIndex:idx_hub_user;not null" json:"user_id"`
	HubUserType string    `gorm:"type:varchar(20);default:'basic'" json:"hub_user_type"` // owner, admin, basic
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (HubUser) TableName() string {
	return "hub_user"
}
