package signingbonus

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, rdb *redis.Client) {
	bonuses := r.Group("/signing-bonuses")
	bonuses.Use(middleware.AuthMiddleware())
	{
		bonuses.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceSigningBonus, rbac.ActionRead), handler.GetAll)
		bonuses.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceSigningBonus, rbac.ActionRead), handler.GetById)
		bonuses.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceSigningBonus, rbac.ActionCreate), middleware.Idempotency(rdb), handler.Create)
		bonuses.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceSigningBonus, rbac.ActionEdit), handler.Update)
		bonuses.POST("/:id/approve", middleware.RBACAuthorize(rbacService, rbac.ResourceSigningBonus, rbac.ActionApproveManager), handler.Approve)
		bonuses.POST("/:id/reject", middleware.RBACAuthorize(rbacService, rbac.ResourceSigningBonus, rbac.ActionReject), handler.Reject)
		bonuses.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceSigningBonus, rbac.ActionDelete), handler.Delete)
	}
}
