package payslip

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Payslip bersifat immutable setelah terbit, jadi responsnya aman di-cache
// lama; hanya perubahan status pembayaran yang membatalkan cache.
const payslipCacheTTL = time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func payslipCacheKey(companyID, id string) string {
	return fmt.Sprintf("payslip:%s:%s", companyID, id)
}

func (h *Handler) invalidateCache(c *gin.Context, companyID, id string) {
	if h.rdb == nil {
		return
	}
	h.rdb.Del(c.Request.Context(), payslipCacheKey(companyID, id))
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GenerateForRun(c *gin.Context) {
	companyID := c.GetString("company_id")
	runID := c.Param("id")

	report, err := h.service.GenerateForRun(c.Request.Context(), companyID, runID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, report, nil)
}

func (h *Handler) ListByRun(c *gin.Context) {
	companyID := c.GetString("company_id")
	runID := c.Param("id")

	resp, err := h.service.ListByRun(c.Request.Context(), companyID, runID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListMine(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.GetString("employee_id")

	resp, err := h.service.ListByEmployee(c.Request.Context(), companyID, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	if h.rdb != nil {
		if cached, err := h.rdb.Get(c.Request.Context(), payslipCacheKey(companyID, id)).Result(); err == nil {
			response.Success(c, http.StatusOK, json.RawMessage(cached), nil)
			return
		}
	}

	resp, err := h.service.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			_ = h.rdb.Set(c.Request.Context(), payslipCacheKey(companyID, id), payload, payslipCacheTTL).Err()
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	id := c.Param("id")

	resp, err := h.service.MarkPaid(c.Request.Context(), companyID, actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.invalidateCache(c, companyID, id)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Dispute(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	id := c.Param("id")

	var req DisputePayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Dispute(c.Request.Context(), companyID, actorID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.invalidateCache(c, companyID, id)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Download(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	path, err := h.service.Download(c.Request.Context(), companyID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.FileAttachment(path, "payslip.pdf")
}
