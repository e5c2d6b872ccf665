package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"ecommerce-backend/internal/api"
	"ecommerce-backend/internal/cache"
	"ecommerce-backend/internal/config"
	"ecommerce-backend/internal/repository"
	"ecommerce-backend/internal/service"
	"ecommerce-backend/migrations"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

func connectDB(cfg config.DBConfig) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", cfg.DSN+"?parseTime=true")
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB")
				return db, nil
			}
		}
		log.Printf("Retry %d: failed to connect to DB: %v", i+1, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB after retries: %v", err)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := connectDB(cfg.DB)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := migrations.AutoMigrate(3, db); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	var cacheClient cache.Client
	if cfg.Cache.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cacheClient = cache.NewRedis(rdb)
	} else {
		cacheClient = cache.NewNoop()
	}
	defer cacheClient.Close()

	kafkaWriter := config.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaWriter.Close()
	events := service.NewKafkaPublisher(kafkaWriter)

	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)

	productService := service.NewProductService(productRepo, categoryRepo, cacheClient)
	categoryService := service.NewCategoryService(categoryRepo, cacheClient)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, cacheClient, events)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)

	productHandler := api.NewProductHandler(productService)
	categoryHandler := api.NewCategoryHandler(categoryService)
	cartHandler := api.NewCartHandler(cartService)
	orderHandler := api.NewOrderHandler(orderService)
	reviewHandler := api.NewReviewHandler(reviewService)
	wishlistHandler := api.NewWishlistHandler(wishlistService)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     60,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "ecommerce-backend",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	jwtConfig := echojwt.Config{
		SigningKey: []byte(cfg.Auth.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(api.JwtCustomClaims)
		},
	}

	// Catalog reads are public; everything else requires a token.
	e.GET("/products", productHandler.ListProducts)
	e.GET("/products/search", productHandler.SearchProducts)
	e.GET("/products/low-stock", productHandler.LowStockProducts)
	e.GET("/products/:id", productHandler.GetProduct)
	e.GET("/products/:id/reviews", reviewHandler.ListProductReviews)
	e.GET("/categories", categoryHandler.ListCategories)
	e.GET("/categories/:id", categoryHandler.GetCategory)

	auth := e.Group("", echojwt.WithConfig(jwtConfig))

	auth.POST("/products", productHandler.CreateProduct)
	auth.PUT("/products/:id", productHandler.UpdateProduct)
	auth.DELETE("/products/:id", productHandler.DeleteProduct)
	auth.POST("/categories", categoryHandler.CreateCategory)
	auth.PUT("/categories/:id", categoryHandler.UpdateCategory)
	auth.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	auth.GET("/cart", cartHandler.GetCart)
	auth.POST("/cart/items", cartHandler.AddItem)
	auth.PUT("/cart/items/:productId", cartHandler.UpdateItem)
	auth.DELETE("/cart/items/:productId", cartHandler.RemoveItem)
	auth.DELETE("/cart", cartHandler.ClearCart)

	auth.POST("/orders", orderHandler.CreateOrder)
	auth.GET("/orders", orderHandler.ListOrders)
	auth.GET("/orders/all", orderHandler.ListAllOrders)
	auth.GET("/orders/:id", orderHandler.GetOrder)
	auth.PATCH("/orders/:id", orderHandler.UpdateOrder)
	auth.PATCH("/orders/:id/status", orderHandler.UpdateOrderStatus)
	auth.POST("/orders/:id/cancel", orderHandler.CancelOrder)

	auth.POST("/products/:id/reviews", reviewHandler.CreateReview)
	auth.PUT("/reviews/:id", reviewHandler.UpdateReview)
	auth.DELETE("/reviews/:id", reviewHandler.DeleteReview)

	auth.GET("/wishlist", wishlistHandler.ListWishlist)
	auth.POST("/wishlist/:productId", wishlistHandler.AddToWishlist)
	auth.DELETE("/wishlist/:productId", wishlistHandler.RemoveFromWishlist)

	e.Logger.Fatal(e.Start(cfg.Server.Addr))
}
