package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/kidiezyllex/street-sneaker-sub002/internal/errors"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/model"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/repository/interfaces"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/storage"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"go.uber.org/zap"
)

// PricedProductView 商品及其当前促销折后价
type PricedProductView struct {
	*model.Product
	Pricing model.PricedProduct `json:"pricing"`
}

type ProductService struct {
	productRepo      interfaces.ProductRepository
	promotionService *PromotionService
	uploader         storage.Uploader
}

// NewProductService 创建一个新的 ProductService 实例
func NewProductService(
	productRepo interfaces.ProductRepository,
	promotionService *PromotionService,
	uploader storage.Uploader,
) *ProductService {
	return &ProductService{
		productRepo:      productRepo,
		promotionService: promotionService,
		uploader:         uploader,
	}
}

// CreateProduct 创建商品
func (s *ProductService) CreateProduct(product *model.Product) error {
	if product.BasePrice <= 0 {
		return errors.New(errors.ErrValidation, "商品价格必须为正数")
	}
	if err := s.productRepo.Create(product); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建商品失败", err)
	}
	return nil
}

// UpdateProduct 更新商品
func (s *ProductService) UpdateProduct(product *model.Product) error {
	if product.BasePrice <= 0 {
		return errors.New(errors.ErrValidation, "商品价格必须为正数")
	}

	existing, err := s.productRepo.FindByID(product.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询商品失败", err)
	}
	if existing == nil {
		return errors.New(errors.ErrProductNotFound, "商品不存在")
	}

	if err := s.productRepo.Update(product); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新商品失败", err)
	}
	return nil
}

// DeleteProduct 删除商品
func (s *ProductService) DeleteProduct(id int) error {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询商品失败", err)
	}
	if existing == nil {
		return errors.New(errors.ErrProductNotFound, "商品不存在")
	}

	if err := s.productRepo.Delete(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除商品失败", err)
	}
	return nil
}

// GetProductByID 获取商品详情及当前折后价
func (s *ProductService) GetProductByID(ctx context.Context, id int) (*PricedProductView, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询商品失败", err)
	}
	if product == nil {
		return nil, errors.New(errors.ErrProductNotFound, "商品不存在")
	}

	promotions, err := s.promotionService.ActivePromotions(ctx)
	if err != nil {
		return nil, err
	}

	return &PricedProductView{
		Product: product,
		Pricing: PriceWithPromotions(time.Now(), product.ID, product.BasePrice, promotions),
	}, nil
}

// ListProducts 分页查询商品列表，价格带当前促销折扣
// 同一批结果使用同一时间点计价，保证列表内折扣一致
func (s *ProductService) ListProducts(ctx context.Context, page, pageSize int) ([]*PricedProductView, int, error) {
	products, total, err := s.productRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询商品列表失败", err)
	}

	promotions, err := s.promotionService.ActivePromotions(ctx)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	views := make([]*PricedProductView, 0, len(products))
	for _, product := range products {
		views = append(views, &PricedProductView{
			Product: product,
			Pricing: PriceWithPromotions(now, product.ID, product.BasePrice, promotions),
		})
	}
	return views, total, nil
}

// UploadProductImage 上传商品图片并更新图片地址
func (s *ProductService) UploadProductImage(id int, file *multipart.FileHeader) (string, error) {
	if !util.IsAllowedImageExt(file.Filename) {
		return "", errors.New(errors.ErrValidation, "仅支持 jpg/jpeg/png/gif/webp 格式的图片")
	}

	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "查询商品失败", err)
	}
	if existing == nil {
		return "", errors.New(errors.ErrProductNotFound, "商品不存在")
	}

	path := "products/" + util.GenerateUniqueFilename(file.Filename)
	url, err := s.uploader.UploadFile(file, path)
	if err != nil {
		return "", errors.Wrap(errors.ErrInternal, "上传商品图片失败", err)
	}

	if err := s.productRepo.UpdateImageURL(id, url); err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "更新商品图片地址失败", err)
	}

	util.Logger.Info("商品图片上传成功",
		zap.Int("product_id", id),
		zap.String("url", url))
	return url, nil
}
