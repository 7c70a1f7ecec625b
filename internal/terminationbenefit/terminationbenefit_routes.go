package terminationbenefit

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, rdb *redis.Client) {
	benefits := r.Group("/termination-benefits")
	benefits.Use(middleware.AuthMiddleware())
	{
		benefits.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceTerminationBenefit, rbac.ActionRead), handler.GetAll)
		benefits.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceTerminationBenefit, rbac.ActionRead), handler.GetById)
		benefits.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceTerminationBenefit, rbac.ActionCreate), middleware.Idempotency(rdb), handler.Create)
		benefits.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceTerminationBenefit, rbac.ActionEdit), handler.Update)
		benefits.POST("/:id/approve", middleware.RBACAuthorize(rbacService, rbac.ResourceTerminationBenefit, rbac.ActionApproveManager), handler.Approve)
		benefits.POST("/:id/reject", middleware.RBACAuthorize(rbacService, rbac.ResourceTerminationBenefit, rbac.ActionReject), handler.Reject)
		benefits.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceTerminationBenefit, rbac.ActionDelete), handler.Delete)
	}
}
