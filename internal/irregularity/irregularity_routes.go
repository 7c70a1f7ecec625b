package irregularity

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	perRun := r.Group("/payroll-runs/:id/irregularities")
	perRun.Use(middleware.AuthMiddleware())
	{
		perRun.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceIrregularity, rbac.ActionRead), handler.GetByRun)
	}

	items := r.Group("/irregularities")
	items.Use(middleware.AuthMiddleware())
	{
		items.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceIrregularity, rbac.ActionRead), handler.GetById)
		items.POST("/:id/escalate", middleware.RBACAuthorize(rbacService, rbac.ResourceIrregularity, rbac.ActionEscalate), handler.Escalate)
		items.POST("/:id/resolve", middleware.RBACAuthorize(rbacService, rbac.ResourceIrregularity, rbac.ActionResolve), handler.Resolve)
	}
}
