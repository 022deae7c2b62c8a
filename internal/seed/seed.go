// Package seed bootstraps the first admin account on a fresh database.
package seed

import (
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/password"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
)

// EnsureAdmin creates the bootstrap admin when no admin exists yet.
// A configured empty password disables bootstrapping.
func EnsureAdmin(conn *gorm.DB, genID *snowflake.Node, cfg config.BootstrapConfig) error {
	if cfg.AdminPassword == "" {
		return nil
	}
	if cfg.AdminUsername == "" || cfg.AdminEmail == "" {
		return errors.New("bootstrap admin needs username and email")
	}

	var count int64
	if err := conn.Model(&accountdomain.User{}).
		Where("role = ?", accountdomain.RoleAdmin).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &accountdomain.User{
		ID:           genID.Generate(),
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: hashed,
		Role:         accountdomain.RoleAdmin,
	}
	return conn.Create(admin).Error
}
