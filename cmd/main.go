package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"github.com/kidiezyllex/street-sneaker-sub002/config"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/api/account"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/api/admin"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/api/order"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/api/product"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/api/promotion"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/api/returns"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/api/voucher"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/common"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/middleware"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/repository/mysql"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/service"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/storage"
	"github.com/kidiezyllex/street-sneaker-sub002/internal/util"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接，启动期网络抖动时重试
	if err := common.WithRetry(db.Ping, 3); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	util.Logger.Info("数据库连接池配置完成")

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("future_date", util.ValidateFutureDate)
		v.RegisterValidation("discount_percent", util.ValidateDiscountPercent)
	}

	// 连接 Redis，失败时降级为无缓存运行
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		util.Logger.Warn("Redis 连接失败，促销缓存不可用", zap.Error(err))
		redisClient = nil
	} else {
		util.Logger.Info("Redis 连接成功")
	}

	// 初始化文件存储
	uploader, err := newUploader()
	if err != nil {
		util.Logger.Fatal("初始化文件存储失败", zap.Error(err))
	}

	// 初始化存储库、服务和处理器
	accountRepo := mysql.NewAccountRepository(db)
	productRepo := mysql.NewProductRepository(db)
	voucherRepo := mysql.NewVoucherRepository(db)
	promotionRepo := mysql.NewPromotionRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	returnRepo := mysql.NewReturnRepository(db)

	accountService := service.NewAccountService(accountRepo)
	voucherService := service.NewVoucherService(voucherRepo)
	promotionService := service.NewPromotionService(promotionRepo)
	if redisClient != nil {
		promotionService.SetRedisClient(redisClient)
	}
	productService := service.NewProductService(productRepo, promotionService, uploader)
	orderService := service.NewOrderService(orderRepo, productRepo, accountRepo, voucherService, promotionService)
	returnService := service.NewReturnService(returnRepo, orderRepo)

	authHandler := account.NewAuthHandler(accountService)
	profileHandler := account.NewProfileHandler(accountService)
	productHandler := product.NewHandler(productService)
	voucherHandler := voucher.NewHandler(voucherService)
	promotionHandler := promotion.NewHandler(promotionService)
	orderHandler := order.NewHandler(orderService, accountService)
	returnHandler := returns.NewHandler(returnService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()
	dashboardHandler := admin.NewDashboardHandler(accountService, errorMonitor)

	// 设置 Gin 路由
	r := gin.Default()

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Access-Control-Allow-Origin",
	}
	r.Use(cors.New(corsConfig))

	// 处理静态文件的CORS
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(200)
				return
			}
		}
		c.Next()
	})

	// 本地存储时提供静态文件服务
	if config.AppConfig.StorageBackend == "local" {
		r.Static("/uploads", config.AppConfig.LocalStoragePath)
	}

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 账户相关路由
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 商品与促销的公开路由
		api.GET("/products", productHandler.List)
		api.GET("/products/:id", productHandler.Get)
		api.GET("/promotions/active", promotionHandler.ListActive)

		// 优惠码校验，只读不消耗名额
		api.POST("/vouchers/validate", voucherHandler.Validate)

		// 需要认证的路由
		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			authorized.POST("/refresh-token", authHandler.RefreshToken)

			authorized.GET("/profile", profileHandler.GetProfile)
			authorized.PUT("/profile", profileHandler.UpdateProfile)

			authorized.GET("/addresses", profileHandler.ListAddresses)
			authorized.POST("/addresses", profileHandler.CreateAddress)
			authorized.PUT("/addresses/:id", profileHandler.UpdateAddress)
			authorized.DELETE("/addresses/:id", profileHandler.DeleteAddress)

			authorized.POST("/orders", orderHandler.Checkout)
			authorized.POST("/pricing", orderHandler.Price)
			authorized.GET("/orders", orderHandler.ListMine)
			authorized.GET("/orders/:id", orderHandler.Get)
			authorized.POST("/orders/:id/cancel", orderHandler.Cancel)

			authorized.POST("/returns", returnHandler.Create)
			authorized.GET("/returns/:id", returnHandler.Get)
			authorized.GET("/orders/:id/returns", returnHandler.ListByOrder)
		}

		// 管理员路由组
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware(accountService))
		{
			// 商品管理
			productAdmin := adminRoutes.Group("/products")
			{
				productAdmin.POST("", productHandler.Create)
				productAdmin.PUT("/:id", productHandler.Update)
				productAdmin.DELETE("/:id", productHandler.Delete)
				productAdmin.POST("/:id/image", productHandler.UploadImage)
			}

			// 优惠券管理
			voucherAdmin := adminRoutes.Group("/vouchers")
			{
				voucherAdmin.GET("", voucherHandler.List)
				voucherAdmin.POST("", voucherHandler.Create)
				voucherAdmin.GET("/:id", voucherHandler.Get)
				voucherAdmin.PUT("/:id", voucherHandler.Update)
				voucherAdmin.PATCH("/:id/status", voucherHandler.UpdateStatus)
			}

			// 促销活动管理
			promotionAdmin := adminRoutes.Group("/promotions")
			{
				promotionAdmin.GET("", promotionHandler.List)
				promotionAdmin.POST("", promotionHandler.Create)
				promotionAdmin.GET("/:id", promotionHandler.Get)
				promotionAdmin.PUT("/:id", promotionHandler.Update)
				promotionAdmin.PATCH("/:id/status", promotionHandler.UpdateStatus)
				promotionAdmin.DELETE("/:id", promotionHandler.Delete)
			}

			// 订单管理
			orderAdmin := adminRoutes.Group("/orders")
			{
				orderAdmin.GET("", orderHandler.List)
				orderAdmin.PATCH("/:id/status", orderHandler.UpdateStatus)
				orderAdmin.PATCH("/:id/payment-status", orderHandler.UpdatePaymentStatus)
				orderAdmin.PATCH("/:id/items/:itemId", orderHandler.UpdateItemQuantity)
			}

			// 退货管理
			returnAdmin := adminRoutes.Group("/returns")
			{
				returnAdmin.GET("", returnHandler.List)
				returnAdmin.POST("/:id/resolve", returnHandler.Resolve)
			}

			// 账户管理
			accountAdmin := adminRoutes.Group("/accounts")
			{
				accountAdmin.GET("", dashboardHandler.ListAccounts)
				accountAdmin.PATCH("/:id/status", dashboardHandler.UpdateAccountStatus)
			}

			// 系统管理
			adminRoutes.GET("/stats/errors", dashboardHandler.GetErrorStats)
		}
	}

	// 创建一个带有超时的 http.Server
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// newUploader 按配置选择文件存储后端
func newUploader() (storage.Uploader, error) {
	if config.AppConfig.StorageBackend == "s3" {
		return storage.NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
	}
	return storage.NewLocalStorage(config.AppConfig.LocalStoragePath)
}
