package models

import "time"

// 工单状态
const (
	TicketStatusOpen    = "open"
	TicketStatusPending = "pending"
	TicketStatusClosed  = "closed"
)

// Ticket 表示hub下的一个工单
type Ticket struct {
	TicketID    uint      `gorm:"column:ticket_id;primaryKey" json:"ticket_id"`
	HubID       uint      `gorm:"column:hub_id;index;not null" json:"hub_id"`
	Status      string    `gorm:"type:varchar(20);default:'open'" json:"status"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Ticket) TableName() string {
	return "tickets"
}

// TicketStats 表示单个hub的工单状态汇总
type TicketStats struct {
	Total   int `json:"total"`
	Open    int `json:"open"`
	Pending int `json:"pending"`
	Closed  int `json:"closed"`
}

// CountTickets 按状态汇总工单
func CountTickets(tickets []Ticket) TicketStats {
	stats := TicketStats{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case TicketStatusOpen:
			stats.Open++
		case TicketStatusPending:
			stats.Pending++
		case TicketStatusClosed:
			stats.Closed++
		}
	}
	return stats
}
