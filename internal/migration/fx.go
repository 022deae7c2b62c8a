package migration

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	usagedomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/domain"
	authdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
	convdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/conversation/domain"
	fooddomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food/domain"
	goaldomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/goal/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/seed"
	txdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/domain"
	profiledomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/userprofile/domain"
	waterdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/waterlog/domain"
	workoutdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/workout/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node) error {
		if conn.Dialector.Name() == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite installs fall back to the ORM schema.
			if err := conn.AutoMigrate(
				&accountdomain.User{},
				&authdomain.Session{},
				&txdomain.Transaction{},
				&usagedomain.Usage{},
				&convdomain.Conversation{},
				&convdomain.ChatMessage{},
				&profiledomain.Profile{},
				&fooddomain.Food{},
				&fooddomain.FoodLog{},
				&workoutdomain.Workout{},
				&workoutdomain.WorkoutLog{},
				&waterdomain.WaterLog{},
				&goaldomain.Goal{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureAdmin(conn, genID, cfg.Bootstrap)
	}),
)
