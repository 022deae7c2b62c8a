package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Role int

const (
	RoleAdmin Role = 1
	RoleUser  Role = 2
	RoleGuest Role = 3
)

func (r Role) Valid() bool {
	return r >= RoleAdmin && r <= RoleGuest
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	case RoleGuest:
		return "guest"
	default:
		return "unknown"
	}
}

type User struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	Username     string          `gorm:"not null;uniqueIndex" json:"username"`
	Email        string          `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string          `gorm:"not null" json:"-"`
	Role         Role            `gorm:"not null;default:2" json:"role"`
	Block        bool            `gorm:"not null;default:false" json:"block"`
	Balance      decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"balance"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
