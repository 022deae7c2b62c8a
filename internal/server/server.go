package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account"
	accountdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/account/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage"
	usagedomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/aiusage/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/analytics"
	analyticsdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/analytics/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth"
	authdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/auth/session"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/conversation"
	convdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/conversation/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food"
	fooddomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/food/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/goal"
	goaldomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/goal/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/metrics"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/providers/ai"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/providers/email"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/ratelimit"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/scheduler"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/suggestion"
	suggestdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/suggestion/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction"
	txdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/transaction/webhook"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/userprofile"
	profiledomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/userprofile/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/waterlog"
	waterdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/waterlog/domain"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/workout"
	workoutdomain "github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/workout/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	metrics.Module,
	fx.Provide(registerGin),
	account.Module,
	auth.Module,
	transaction.Module,
	aiusage.Module,
	conversation.Module,
	userprofile.Module,
	food.Module,
	workout.Module,
	waterlog.Module,
	goal.Module,
	suggestion.Module,
	analytics.Module,
	ai.Module,
	email.Module,
	ratelimit.Module,
	scheduler.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(MetricsMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	return r
}

func registerGin(m *metrics.Metrics) *gin.Engine {
	return NewEngine(m)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	sessions    *session.Manager
	chatLimiter *ratelimit.TokenBucket

	authsvc      authdomain.Service
	accountSvc   accountdomain.Service
	txSvc        txdomain.Service
	webhookSvc   webhook.Service
	usageSvc     usagedomain.Service
	convSvc      convdomain.Service
	profileSvc   profiledomain.Service
	foodSvc      fooddomain.Service
	workoutSvc   workoutdomain.Service
	waterSvc     waterdomain.Service
	goalSvc      goaldomain.Service
	suggestSvc   suggestdomain.Service
	analyticsSvc analyticsdomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Sessions    *session.Manager
	ChatLimiter *ratelimit.TokenBucket `optional:"true"`

	Authsvc      authdomain.Service
	AccountSvc   accountdomain.Service
	TxSvc        txdomain.Service
	WebhookSvc   webhook.Service
	UsageSvc     usagedomain.Service
	ConvSvc      convdomain.Service
	ProfileSvc   profiledomain.Service
	FoodSvc      fooddomain.Service
	WorkoutSvc   workoutdomain.Service
	WaterSvc     waterdomain.Service
	GoalSvc      goaldomain.Service
	SuggestSvc   suggestdomain.Service
	AnalyticsSvc analyticsdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		log:          p.Log.Named("http.server"),
		genID:        p.GenID,
		sessions:     p.Sessions,
		chatLimiter:  p.ChatLimiter,
		authsvc:      p.Authsvc,
		accountSvc:   p.AccountSvc,
		txSvc:        p.TxSvc,
		webhookSvc:   p.WebhookSvc,
		usageSvc:     p.UsageSvc,
		convSvc:      p.ConvSvc,
		profileSvc:   p.ProfileSvc,
		foodSvc:      p.FoodSvc,
		workoutSvc:   p.WorkoutSvc,
		waterSvc:     p.WaterSvc,
		goalSvc:      p.GoalSvc,
		suggestSvc:   p.SuggestSvc,
		analyticsSvc: p.AnalyticsSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
	auth.POST("/guest", s.GuestLogin)
	auth.POST("/guest/upgrade", s.AuthRequired(), s.UpgradeGuest)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	// The payment rail posts here without a session.
	s.engine.POST("/api/transactions/webhook", s.HandlePaymentWebhook)

	api := s.engine.Group("/api", s.AuthRequired())

	api.GET("/transactions", s.ListTransactions)
	api.POST("/transactions", s.CreateTransaction)
	api.GET("/transactions/:id", s.GetTransactionByID)
	api.PATCH("/transactions/:id", s.UpdateTransaction)
	api.GET("/balance", s.GetBalance)

	api.GET("/ai-usage", s.ListAIUsage)
	api.GET("/ai-usage/stats", s.GetAIUsageStats)

	api.GET("/conversations", s.ListConversations)
	api.POST("/conversations", s.CreateConversation)
	api.GET("/conversations/:id", s.GetConversationByID)
	api.PATCH("/conversations/:id", s.UpdateConversation)
	api.DELETE("/conversations/:id", s.DeleteConversation)
	api.GET("/conversations/:id/messages", s.ListConversationMessages)
	api.POST("/conversations/:id/ask", s.ChatRateLimit(), s.AskAI)

	api.GET("/profile", s.GetProfile)
	api.PUT("/profile", s.UpsertProfile)
	api.DELETE("/profile", s.DeleteProfile)

	api.GET("/foods", s.ListFoods)
	api.POST("/foods", s.CreateFood)
	api.GET("/foods/:id", s.GetFoodByID)
	api.PATCH("/foods/:id", s.UpdateFood)
	api.DELETE("/foods/:id", s.DeleteFood)
	api.GET("/food-logs", s.ListFoodLogs)
	api.POST("/food-logs", s.CreateFoodLog)
	api.DELETE("/food-logs/:id", s.DeleteFoodLog)

	api.GET("/workouts", s.ListWorkouts)
	api.POST("/workouts", s.CreateWorkout)
	api.GET("/workouts/:id", s.GetWorkoutByID)
	api.PATCH("/workouts/:id", s.UpdateWorkout)
	api.DELETE("/workouts/:id", s.DeleteWorkout)
	api.GET("/workout-logs", s.ListWorkoutLogs)
	api.POST("/workout-logs", s.CreateWorkoutLog)
	api.PATCH("/workout-logs/:id", s.UpdateWorkoutLog)
	api.DELETE("/workout-logs/:id", s.DeleteWorkoutLog)

	api.POST("/suggestions/meal", s.ChatRateLimit(), s.SuggestMeal)
	api.POST("/suggestions/workout-plan", s.ChatRateLimit(), s.SuggestWorkoutPlan)

	api.GET("/analytics/nutrition", s.GetNutritionAnalytics)
	api.GET("/analytics/workouts", s.GetWorkoutAnalytics)

	api.GET("/water-logs", s.ListWaterLogs)
	api.POST("/water-logs", s.CreateWaterLog)
	api.GET("/water-logs/daily", s.ListWaterDailyTotals)
	api.DELETE("/water-logs/:id", s.DeleteWaterLog)

	api.GET("/goals", s.ListGoals)
	api.POST("/goals", s.CreateGoal)
	api.PATCH("/goals/:id", s.UpdateGoal)
	api.DELETE("/goals/:id", s.DeleteGoal)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin", s.AuthRequired(), s.RequireRole(accountdomain.RoleAdmin))

	admin.GET("/users", s.ListUsers)
	admin.POST("/users", s.CreateUser)
	admin.GET("/users/:id", s.GetUserByID)
	admin.PATCH("/users/:id", s.UpdateUser)
	admin.DELETE("/users/:id", s.DeleteUser)
	admin.GET("/users/:id/balance", s.GetUserBalance)

	admin.GET("/transactions", s.ListTransactions)
	admin.PATCH("/transactions/:id/status", s.UpdateTransactionStatus)
	admin.DELETE("/transactions/:id", s.DeleteTransaction)

	admin.GET("/ai-usage", s.ListAIUsage)
	admin.GET("/ai-usage/global-stats", s.GetGlobalAIUsageStats)
}
