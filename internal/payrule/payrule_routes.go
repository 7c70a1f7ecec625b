package payrule

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

// Aturan diedit lewat jalur administrasi konfigurasi; engine hanya membaca,
// karena itu route di sini read-only.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	rules := r.Group("/pay-rules")
	rules.Use(middleware.AuthMiddleware())
	{
		rules.GET("/tax", middleware.RBACAuthorize(rbacService, rbac.ResourcePayRule, rbac.ActionRead), handler.GetTaxRules)
		rules.GET("/insurance", middleware.RBACAuthorize(rbacService, rbac.ResourcePayRule, rbac.ActionRead), handler.GetInsuranceRules)
		rules.GET("/pay-grades", middleware.RBACAuthorize(rbacService, rbac.ResourcePayRule, rbac.ActionRead), handler.GetPayGradeRules)
	}
}
