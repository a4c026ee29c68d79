package product

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/service"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
)

type Handler struct {
	productService *service.ProductService
}

func NewHandler(productService *service.ProductService) *Handler {
	return &Handler{productService}
}

type variantInput struct {
	Color string `json:"color" binding:"required"`
	Size  string `json:"size" binding:"required"`
	Stock int    `json:"stock"`
}

type productInput struct {
	Name        string         `json:"name" binding:"required"`
	Brand       string         `json:"brand"`
	Description string         `json:"description"`
	BasePrice   int64          `json:"base_price" binding:"required"`
	Variants    []variantInput `json:"variants"`
}

func (in *productInput) toModel() *model.Product {
	product := &model.Product{
		Name:        in.Name,
		Brand:       in.Brand,
		Description: in.Description,
		BasePrice:   in.BasePrice,
	}
	for _, v := range in.Variants {
		product.Variants = append(product.Variants, &model.ProductVariant{
			Color: v.Color,
			Size:  v.Size,
			Stock: v.Stock,
		})
	}
	return product
}

func (h *Handler) List(c *gin.Context) {
	page, pageSize := parsePaging(c)

	products, total, err := h.productService.ListProducts(c.Request.Context(), page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"products": products,
		"total":    total,
		"page":     page,
	}, "")
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的商品ID"))
		return
	}

	product, err := h.productService.GetProductByID(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"product": product}, "")
}

func (h *Handler) Create(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Warn("创建商品失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	product := input.toModel()
	if err := h.productService.CreateProduct(product); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"product": product}, "商品创建成功")
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的商品ID"))
		return
	}

	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	product := input.toModel()
	product.ID = id
	if err := h.productService.UpdateProduct(product); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"product": product}, "商品更新成功")
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的商品ID"))
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "商品删除成功")
}

func (h *Handler) UploadImage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "无效的商品ID"))
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		util.Logger.Error("获取上传文件失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "无法获取上传文件", err))
		return
	}

	url, err := h.productService.UploadProductImage(id, file)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"image_url": url}, "商品图片上传成功")
}

func parsePaging(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
