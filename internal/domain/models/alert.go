package models

import "time"

// Alert 表示hub上报的一条告警
// created_at 倒序排列对"最近告警"展示有业务意义
type Alert struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	HubID     uint      `gorm:"column:hub_id;index;not null" json:"hub_id"`
	Message   string    `gorm:"type:varchar(200);not null" json:"message"`
	Active    bool      `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (Alert) TableName() string {
	return "alerts"
}
