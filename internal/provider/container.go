package provider

import (
	"github.com/decalforge/decalforge/internal/authz"
	"github.com/decalforge/decalforge/internal/cache"
	"github.com/decalforge/decalforge/internal/config"
	"github.com/decalforge/decalforge/internal/logger"
	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/queue"
	"github.com/decalforge/decalforge/internal/repository"
	"github.com/decalforge/decalforge/internal/service"
)

// Container holds the wired repositories and services.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo         repository.AdminRepository
	ProductRepo       repository.ProductRepository
	PostRepo          repository.PostRepository
	GalleryRepo       repository.GalleryRepository
	DiscountCodeRepo  repository.DiscountCodeRepository
	CartRepo          repository.CartRepository
	OrderRepo         repository.OrderRepository
	StripePaymentRepo repository.StripePaymentRepository
	AffiliateRepo     repository.AffiliateRepository

	// Services
	AuthzService         *authz.Service
	AuthService          *service.AuthService
	ProductService       *service.ProductService
	PostService          *service.PostService
	GalleryService       *service.GalleryService
	DiscountService      *service.DiscountService
	CartService          *service.CartService
	CheckoutService      *service.CheckoutService
	OrderService         *service.OrderService
	RefundService        *service.RefundService
	ShippingService      *service.ShippingService
	AffiliateService     *service.AffiliateService
	StripeWebhookService *service.StripeWebhookService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.GalleryRepo = repository.NewGalleryRepository(db)
	c.DiscountCodeRepo = repository.NewDiscountCodeRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.StripePaymentRepo = repository.NewStripePaymentRepository(db)
	c.AffiliateRepo = repository.NewAffiliateRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.PostService = service.NewPostService(c.PostRepo)
	c.GalleryService = service.NewGalleryService(c.GalleryRepo)
	c.DiscountService = service.NewDiscountService(c.DiscountCodeRepo)
	c.AffiliateService = service.NewAffiliateService(c.AffiliateRepo)
	c.CartService = service.NewCartService(c.Config, c.CartRepo, c.ProductRepo, c.DiscountService)
	c.CheckoutService = service.NewCheckoutService(
		c.Config,
		c.OrderRepo,
		c.CartRepo,
		c.StripePaymentRepo,
		c.CartService,
		c.DiscountService,
		c.AffiliateService,
		c.QueueClient,
	)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo)
	c.RefundService = service.NewRefundService(c.Config, c.OrderRepo, c.StripePaymentRepo, c.AffiliateService)
	c.ShippingService = service.NewShippingService(c.Config, c.OrderRepo, c.CartRepo)
	c.StripeWebhookService = service.NewStripeWebhookService(c.Config, c.OrderRepo, c.StripePaymentRepo, c.AffiliateService, c.QueueClient)
}
