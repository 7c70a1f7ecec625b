package app

import (
	"path/filepath"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/employee"
	"go-payroll/internal/irregularity"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/payrule"
	"go-payroll/internal/payslip"
	"go-payroll/internal/periodfacts"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/signingbonus"
	"go-payroll/internal/terminationbenefit"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	factsRepo := periodfacts.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	ruleRepo := payrule.NewRepository(gormDB)
	bonusRepo := signingbonus.NewRepository(gormDB)
	benefitRepo := terminationbenefit.NewRepository(gormDB)
	irregularityRepo := irregularity.NewRepository(gormDB)
	runRepo := payrollrun.NewRepository(gormDB)
	payslipRepo := payslip.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	ruleService := payrule.NewService(ruleRepo)
	bonusService := signingbonus.NewService(bonusRepo)
	benefitService := terminationbenefit.NewService(benefitRepo)
	runService := payrollrun.NewService(gormDB, payrollrun.Dependencies{
		Runs:           runRepo,
		Employees:      employeeRepo,
		Facts:          factsRepo,
		Rules:          ruleService,
		Bonuses:        bonusRepo,
		Benefits:       benefitRepo,
		Irregularities: irregularityRepo,
		Outbox:         outboxRepo,
		Counters:       counterRepo,
		Audit:          bootstrap.NewStdoutAuditLogger(),
	})
	// Ledger memberi resolusi irregularity jalan ke angka run tanpa siklus
	// import antara kedua modul.
	irregularityService := irregularity.NewService(gormDB, irregularityRepo, payrollrun.NewLedger(runRepo))
	payslipService := payslip.NewService(payslipRepo, runRepo)

	// --- Handlers ---
	ruleHandler := payrule.NewHandler(ruleService)
	bonusHandler := signingbonus.NewHandlerWithRedis(bonusService, rdb)
	benefitHandler := terminationbenefit.NewHandlerWithRedis(benefitService, rdb)
	runHandler := payrollrun.NewHandlerWithRedis(runService, rdb)
	irregularityHandler := irregularity.NewHandler(irregularityService)
	payslipHandler := payslip.NewHandlerWithRedis(payslipService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		payrule.RegisterRoutes(api, ruleHandler, rbacService)
		signingbonus.RegisterRoutes(api, bonusHandler, rbacService, rdb)
		terminationbenefit.RegisterRoutes(api, benefitHandler, rbacService, rdb)
		payrollrun.RegisterRoutes(api, runHandler, rbacService, rdb)
		irregularity.RegisterRoutes(api, irregularityHandler, rbacService)
		payslip.RegisterRoutes(api, payslipHandler, rbacService)
	}

	return nil
}
