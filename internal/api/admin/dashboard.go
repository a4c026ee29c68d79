package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/middleware"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/service"
)

type DashboardHandler struct {
	accountService *service.AccountService
	errorMonitor   *middleware.ErrorMonitor
}

func NewDashboardHandler(accountService *service.AccountService, errorMonitor *middleware.ErrorMonitor) *DashboardHandler {
	return &DashboardHandler{accountService, errorMonitor}
}

// GetErrorStats 返回各错误码的累计次数
func (h *DashboardHandler) GetErrorStats(c *gin.Context) {
	errors.HandleSuccess(c, gin.H{
		"error_counts": h.errorMonitor.GetErrorCounts(),
	}, "")
}

// ListAccounts 分页查询账户
func (h *DashboardHandler) ListAccounts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	accounts, total, err := h.accountService.ListAccounts(page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"accounts": accounts,
		"total":    total,
		"page":     page,
	}, "")
}

// UpdateAccountStatus 启用或停用账户
func (h *DashboardHandler) UpdateAccountStatus(c *gin.Context) {
	accountID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的账户ID"))
		return
	}

	var input struct {
		Status model.CommonStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.accountService.UpdateStatus(accountID, input.Status); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "账户状态更新成功")
}
