package promotion

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/service"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
)

type Handler struct {
	promotionService *service.PromotionService
}

func NewHandler(promotionService *service.PromotionService) *Handler {
	return &Handler{promotionService}
}

type promotionInput struct {
	Name            string    `json:"name" binding:"required"`
	Description     string    `json:"description"`
	DiscountPercent int       `json:"discount_percent" binding:"required"`
	ProductIDs      []int     `json:"product_ids" binding:"required"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`
}

func (h *Handler) Create(c *gin.Context) {
	var input promotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Warn("创建促销活动失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	promotion := &model.Promotion{
		Name:            input.Name,
		Description:     input.Description,
		DiscountPercent: input.DiscountPercent,
		ProductIDs:      input.ProductIDs,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
	}
	if err := h.promotionService.CreatePromotion(c.Request.Context(), promotion); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"promotion": promotion}, "促销活动创建成功")
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的促销活动ID"))
		return
	}

	var input promotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	promotion := &model.Promotion{
		ID:              id,
		Name:            input.Name,
		Description:     input.Description,
		DiscountPercent: input.DiscountPercent,
		ProductIDs:      input.ProductIDs,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Status:          model.StatusHoatDong,
	}
	if err := h.promotionService.UpdatePromotion(c.Request.Context(), promotion); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"promotion": promotion}, "促销活动更新成功")
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的促销活动ID"))
		return
	}

	var input struct {
		Status model.CommonStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.promotionService.UpdatePromotionStatus(c.Request.Context(), id, input.Status); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "促销状态更新成功")
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的促销活动ID"))
		return
	}

	if err := h.promotionService.DeletePromotion(c.Request.Context(), id); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "促销活动删除成功")
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的促销活动ID"))
		return
	}

	promotion, err := h.promotionService.GetPromotionByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"promotion": promotion}, "")
}

func (h *Handler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	promotions, total, err := h.promotionService.ListPromotions(page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"promotions": promotions,
		"total":      total,
		"page":       page,
	}, "")
}

// ListActive 返回当前生效的促销活动
func (h *Handler) ListActive(c *gin.Context) {
	promotions, err := h.promotionService.ActivePromotions(c.Request.Context())
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"promotions": promotions}, "")
}
