package router

import (
	"net/http"

	"github.com/Vk9769/voting-backend/internal/assignment"
	"github.com/Vk9769/voting-backend/internal/auth"
	"github.com/Vk9769/voting-backend/internal/booth"
	"github.com/Vk9769/voting-backend/internal/config"
	"github.com/Vk9769/voting-backend/internal/handler"
	"github.com/Vk9769/voting-backend/internal/middleware"
	"github.com/Vk9769/voting-backend/internal/presence"
	"github.com/Vk9769/voting-backend/internal/token"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires the Gin engine: REST API groups plus the live tracking
// websocket.
func Setup(cfg *config.Config, db *gorm.DB, hub *presence.Hub) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	hierarchy := auth.DefaultHierarchy()
	tokens := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireHours)
	authenticator := auth.NewAuthenticator(db, tokens)
	booths := booth.NewService(db)
	assignments := assignment.NewManager(db)
	tracker := presence.NewTracker(db, hub)

	authHandler := handler.NewAuthHandler(db, authenticator)
	adminHandler := handler.NewAdminHandler(db, booths, assignments)
	agentHandler := handler.NewAgentHandler(db, booths, assignments, tracker,
		cfg.Security.BcryptCost, cfg.Uploads.Dir)
	voterHandler := handler.NewVoterHandler(db)
	wsHandler := handler.NewWSHandler(hub, tracker, cfg.Presence.MaxMessageBytes)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "voting API running")
	})
	r.Static("/uploads", cfg.Uploads.Dir)

	// live agent tracking channel
	r.GET("/ws/track", wsHandler.Track)

	api := r.Group("/api")

	// authentication (no token required)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	authed := api.Group("")
	authed.Use(
		middleware.AuthMiddleware(tokens, db),
		middleware.AuditMiddleware(db),
	)

	authed.GET("/auth/roles", authHandler.GetRoles)
	authed.POST("/auth/select-role", authHandler.SelectRole)
	authed.POST("/auth/register-device", authHandler.RegisterDevice)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRole(auth.RoleAdmin, auth.RoleSuperAdmin, auth.RoleMasterAdmin))
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/booths", adminHandler.GetBooths)
	admin.POST("/booths", adminHandler.CreateBooth)
	admin.PUT("/booths/:booth_id", adminHandler.EditBooth)
	admin.DELETE("/booths/:booth_id", adminHandler.DeleteBooth)
	admin.GET("/agents", adminHandler.GetAgents)
	admin.GET("/reports", adminHandler.GetReports)
	admin.POST("/flag", adminHandler.FlagActivity)
	admin.POST("/assign-agent", adminHandler.AssignAgentToBooth)
	admin.POST("/assign-voter", adminHandler.AssignVoterToBooth)
	admin.GET("/booth-assignments", adminHandler.GetBoothAssignments)

	agent := authed.Group("/agent")
	agent.POST("", middleware.CheckRoleCreatePermission(hierarchy), agentHandler.AddAgent)
	agent.GET("/assigned-booth", middleware.RequireRole(auth.RoleAgent, auth.RoleSuperAgent), agentHandler.GetAssignedBooths)
	agent.POST("/location", middleware.RequireRole(auth.RoleAgent, auth.RoleSuperAgent), agentHandler.PostLocation)
	agent.POST("/mark-vote", middleware.RequireRole(auth.RoleAgent, auth.RoleSuperAgent), agentHandler.MarkVote)
	agent.GET("/tasks", middleware.RequireRole(auth.RoleAgent, auth.RoleSuperAgent), agentHandler.GetTasks)

	// voter lookups (public, consumed by kiosk clients)
	api.GET("/voter/status/:voter_id", voterHandler.GetStatus)
	api.POST("/voter/verify", voterHandler.VerifyVoter)

	return r
}
