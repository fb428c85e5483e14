package router

import (
	"time"

	"stoktakip/internal/config"
	"stoktakip/internal/handler"
	"stoktakip/internal/kvstore"
	"stoktakip/internal/middleware"
	"stoktakip/internal/repository"
	"stoktakip/internal/service"
	"stoktakip/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← Store.
// rdb may be nil when running on the in-memory store; async job dispatch is
// disabled in that case.
func New(cfg *config.Config, store kvstore.Store, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(store)
	saleRepo := repository.NewSaleRepository(store)
	repairRepo := repository.NewRepairRepository(store)
	customerRepo := repository.NewCustomerRepository(store)
	transactionRepo := repository.NewTransactionRepository(store)
	phoneRepo := repository.NewPhoneRepository(store)
	phoneSaleRepo := repository.NewPhoneSaleRepository(store)
	supplierRepo := repository.NewSupplierRepository(store)
	purchaseRepo := repository.NewPurchaseRepository(store)

	// Worker dispatcher — injected into services that enqueue async jobs
	var dispatcher *worker.Dispatcher
	if rdb != nil {
		dispatcher = worker.NewDispatcher(rdb)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(cfg)
	ledger := service.NewStockLedger(productRepo, dispatcher)
	productSvc := service.NewProductService(productRepo, ledger)
	saleSvc := service.NewSaleService(saleRepo, productRepo, ledger)
	customerSvc := service.NewCustomerService(customerRepo)
	customerLedger := service.NewCustomerLedger(customerRepo, transactionRepo)
	repairSvc := service.NewRepairService(repairRepo, saleRepo, dispatcher)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, supplierRepo, productRepo, ledger)
	phoneSvc := service.NewPhoneService(phoneRepo, phoneSaleRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	customersH := handler.NewCustomersHandler(customerSvc, customerLedger)
	repairsH := handler.NewRepairsHandler(repairSvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	phonesH := handler.NewPhonesHandler(phoneSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(store))
	r.POST("/v1/auth/login", middleware.LoginRateLimiter(), authH.Login)

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.Get)
			products.PUT("/:id", productsH.Update)
			products.PATCH("/:id/stock", productsH.AdjustStock)
			products.DELETE("/:id", productsH.Delete)
		}
		v1.GET("/barcode/:barcode", productsH.GetByBarcode)

		sales := v1.Group("/sales")
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.Get)
			sales.PUT("/:id", salesH.Update)
			sales.DELETE("/:id", salesH.Delete)
		}

		customers := v1.Group("/customers")
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.Get)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Delete)
			customers.POST("/:id/transactions", customersH.ApplyTransaction)
			customers.GET("/:id/transactions", customersH.ListTransactions)
		}

		repairs := v1.Group("/repairs")
		{
			repairs.POST("", repairsH.Create)
			repairs.GET("", repairsH.List)
			repairs.GET("/:id", repairsH.Get)
			repairs.PUT("/:id", repairsH.Update)
			repairs.PATCH("/:id/status", repairsH.UpdateStatus)
			repairs.DELETE("/:id", repairsH.Delete)
		}

		purchases := v1.Group("/purchases")
		{
			purchases.POST("", purchasesH.Create)
			purchases.GET("", purchasesH.List)
			purchases.GET("/:id", purchasesH.Get)
			purchases.DELETE("/:id", purchasesH.Delete)
		}

		phones := v1.Group("/phones")
		{
			phones.POST("", phonesH.Create)
			phones.GET("", phonesH.List)
			phones.GET("/:id", phonesH.Get)
			phones.PUT("/:id", phonesH.Update)
			phones.DELETE("/:id", phonesH.Delete)
			phones.POST("/:id/sell", phonesH.Sell)
		}
		v1.GET("/phone-sales", phonesH.ListSales)
		v1.DELETE("/phone-sales/:id", phonesH.DeleteSale)

		suppliers := v1.Group("/suppliers")
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.GET("/:id", suppliersH.Get)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Delete)
		}
	}

	return r
}
