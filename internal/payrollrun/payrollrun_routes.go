package payrollrun

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, rdb *redis.Client) {
	runs := r.Group("/payroll-runs")
	runs.Use(middleware.AuthMiddleware())
	{
		runs.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionRead), handler.GetAll)
		runs.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionRead), handler.GetById)
		runs.GET("/:id/details", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionRead), handler.GetDetails)

		runs.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionCreate), middleware.Idempotency(rdb), handler.Create)
		runs.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionEdit), handler.Update)
		runs.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionDelete), handler.Delete)

		// Submit dipakai dua kali di siklus hidup run: DRAFT/REJECTED menuju
		// antrian manajer, APPROVED menuju antrian finance.
		runs.POST("/:id/submit", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionSubmit), middleware.Idempotency(rdb), handler.Submit)
		runs.POST("/:id/approve-manager", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionApproveManager), handler.ApproveManager)
		runs.POST("/:id/approve-finance", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionApproveFinance), handler.ApproveFinance)
		runs.POST("/:id/reject", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionReject), handler.Reject)
		runs.POST("/:id/unfreeze", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionUnfreeze), handler.Unfreeze)
	}
}
