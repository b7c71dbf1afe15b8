package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 表示平台用户（后台人员或住户）
type User struct {
	UserID    uint      `gorm:"column:user_id;primaryKey" json:"user_id"`
	FirstName string    `gorm:"type:varchar(50)" json:"first_name"`
	LastName  string    `gorm:"type:varchar(50)" json:"last_name"`
	Email     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(100)" json:"-"` // 不在JSON中暴露密码
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	OrgUsers []OrgUser `gorm:"foreignKey:UserID;references:UserID" json:"org_users,omitempty"`
	HubUsers []HubUser `gorm:"foreignKey:UserID;references:UserID" json:"hub_users,omitempty"`
}

// TableName 指定表名，与数据存储侧保持一致
func (User) TableName() string {
	return "user"
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// 如果提供了明文密码，对其进行哈希处理
	if u.Password != "" && !isBcryptHash(u.Password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hashed)
	}
	return nil
}

// bcrypt哈希以 $2a$/$2b$/$2y$ 开头
func isBcryptHash(s string) bool {
	return len(s) == 60 && s[0] == '$' && s[1] == '2'
}
