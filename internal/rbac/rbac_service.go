package rbac

import (
	"sync"

	"go-payroll/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// Resource/action pairs gated by policy. Roles per company: payroll_specialist,
// payroll_manager, finance, admin.
const (
	ResourcePayrollRun         = "payroll_run"
	ResourceSigningBonus       = "signing_bonus"
	ResourceTerminationBenefit = "termination_benefit"
	ResourceIrregularity       = "irregularity"
	ResourcePayslip            = "payslip"
	ResourcePayRule            = "pay_rule"

	ActionRead           = "read"
	ActionCreate         = "create"
	ActionEdit           = "edit"
	ActionSubmit         = "submit"
	ActionApproveManager = "approve_manager"
	ActionApproveFinance = "approve_finance"
	ActionReject         = "reject"
	ActionUnfreeze       = "unfreeze"
	ActionEscalate       = "escalate"
	ActionResolve        = "resolve"
	ActionDelete         = "delete"
)

const (
	RolePayrollSpecialist = "payroll_specialist"
	RolePayrollManager    = "payroll_manager"
	RoleFinance           = "finance"
	RoleAdmin             = "admin"
)

// IsManagerLevel dipakai untuk visibilitas item yang sudah dieskalasi:
// hanya level manajer ke atas yang melihatnya.
func IsManagerLevel(role string) bool {
	switch role {
	case RolePayrollManager, RoleFinance, RoleAdmin:
		return true
	}
	return false
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadCompanyPolicy(companyID string) error
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   zap.L().Named("rbac.service"),
	}
}

func (s *service) LoadCompanyPolicy(companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadCompanyPolicyUnlocked(companyID)
}

func (s *service) loadCompanyPolicyUnlocked(companyID string) error {
	s.enforcer.ClearPolicy()

	// Load grouping policy
	employeeRoles, err := s.repo.GetEmployeeRoles(companyID)
	if err != nil {
		return err
	}

	for _, er := range employeeRoles {
		_, err := s.enforcer.AddGroupingPolicy(
			er.EmployeeID,
			er.RoleID,
			companyID,
		)
		if err != nil {
			return err
		}
	}

	// Load permission policy
	rolePerms, err := s.repo.GetRolePermissions(companyID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		_, err := s.enforcer.AddPolicy(
			rp.RoleID,
			companyID,
			rp.Resource,
			rp.Action,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadCompanyPolicyUnlocked(req.CompanyID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.EmployeeID,
		req.CompanyID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("company_id", req.CompanyID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("employee_id", req.EmployeeID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}
