package payslip

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	runScoped := r.Group("/payroll-runs")
	runScoped.Use(middleware.AuthMiddleware())
	{
		runScoped.GET("/:id/payslips", middleware.RBACAuthorize(rbacService, rbac.ResourcePayslip, rbac.ActionRead), handler.ListByRun)
		runScoped.POST("/:id/payslips/generate", middleware.RBACAuthorize(rbacService, rbac.ResourcePayslip, rbac.ActionCreate), handler.GenerateForRun)
	}

	// Karyawan melihat payslip miliknya sendiri tanpa gate RBAC tambahan;
	// identitasnya sudah dari klaim token.
	mine := r.Group("/my-payslips")
	mine.Use(middleware.AuthMiddleware())
	{
		mine.GET("", handler.ListMine)
	}

	slips := r.Group("/payslips")
	slips.Use(middleware.AuthMiddleware())
	{
		slips.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePayslip, rbac.ActionRead), handler.GetById)
		slips.GET("/:id/download", middleware.RBACAuthorize(rbacService, rbac.ResourcePayslip, rbac.ActionRead), handler.Download)
		slips.POST("/:id/mark-paid", middleware.RBACAuthorize(rbacService, rbac.ResourcePayslip, rbac.ActionEdit), handler.MarkPaid)
		slips.POST("/:id/dispute", middleware.RBACAuthorize(rbacService, rbac.ResourcePayslip, rbac.ActionEdit), handler.Dispute)
	}
}
