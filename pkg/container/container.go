package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"country-currency-api/internal/config"
	"country-currency-api/internal/infrastructure/cache"
	"country-currency-api/internal/infrastructure/database"
	"country-currency-api/internal/infrastructure/storage"

	"country-currency-api/internal/domains/country/gateway"
	"country-currency-api/internal/domains/country/gateway/exchangerate"
	"country-currency-api/internal/domains/country/gateway/restcountries"
	countryHandler "country-currency-api/internal/domains/country/handler"
	countryRepo "country-currency-api/internal/domains/country/repository"
	countryService "country-currency-api/internal/domains/country/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Struct này là "root" của dependency graph
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	// Lifecycle: Singleton (1 instance duy nhất trong app lifetime)

	Config   *config.Config
	DB       *database.PostgresDB   // nil khi STORE_DRIVER=memory
	Redis    *cache.RedisClient     // health check
	Uploader storage.ObjectUploader // nil khi MinIO tắt hoặc không kết nối được

	// ========================================
	// GATEWAY LAYER (UPSTREAM APIs)
	// ========================================

	CountryDirectory gateway.CountryDirectory
	RateProvider     gateway.RateProvider

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================

	CountryRepo countryRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================

	RefreshService countryService.RefreshServiceInterface
	CountryService countryService.CountryServiceInterface
	SummaryService countryService.SummaryServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================

	CountryHandler *countryHandler.CountryHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
//
// QUAN TRỌNG: Thứ tự initialization:
// 1. Config (không phụ thuộc gì)
// 2. Infrastructure (DB, Redis, MinIO) - phụ thuộc Config
// 3. Gateways + Repositories - phụ thuộc Infrastructure
// 4. Services - phụ thuộc Repositories/Gateways
// 5. Handlers - phụ thuộc Services
func NewContainer() (*Container, error) {
	log.Info().Msg("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Info().Msg("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Str("store", cfg.Store.Driver).Msg("✅ Config loaded")

	// ========================================
	// STEP 2: INITIALIZE INFRASTRUCTURE
	// ========================================
	if err := c.initDatabase(); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.initRedis()
	c.initObjectStorage()

	// ========================================
	// STEP 3: GATEWAYS + REPOSITORIES
	// ========================================
	log.Info().Msg("📦 Initializing repositories...")
	c.initGateways()
	c.initRepositories()
	log.Info().Msg("✅ Repositories initialized")

	// ========================================
	// STEP 4: SERVICES
	// ========================================
	log.Info().Msg("⚙️  Initializing services...")
	c.initServices()
	log.Info().Msg("✅ Services initialized")

	// ========================================
	// STEP 5: HANDLERS
	// ========================================
	c.initHandlers()
	log.Info().Msg("✅ DI Container ready")

	return c, nil
}

// initDatabase kết nối PostgreSQL và đảm bảo schema; bỏ qua với memory store
func (c *Container) initDatabase() error {
	if c.Config.Store.Driver != config.StoreDriverPostgres {
		log.Warn().Msg("⚠️  Using in-memory store, data is lost on restart")
		return nil
	}

	log.Info().Msg("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	if err := database.EnsureSchema(ctx, db.Pool); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	log.Info().Msg("✅ Database connected")
	return nil
}

// initRedis: Redis failure không critical - log warning và continue
func (c *Container) initRedis() {
	log.Info().Msg("🔴 Connecting to Redis...")

	c.Redis = cache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("⚠️  Redis connection failed (non-critical)")
		return
	}
	log.Info().Msg("✅ Redis connected")
}

// initObjectStorage: MinIO chỉ dùng để mirror summary image
func (c *Container) initObjectStorage() {
	if !c.Config.MinIO.Enabled {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	minioStorage, err := storage.NewMinIOStorage(ctx, c.Config.MinIO)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️  MinIO unavailable, summary mirror disabled")
		return
	}
	c.Uploader = minioStorage
	log.Info().Str("bucket", c.Config.MinIO.Bucket).Msg("✅ MinIO connected")
}

func (c *Container) initGateways() {
	httpClient := gateway.NewHTTPClient(c.Config.Upstream.Timeout)

	c.CountryDirectory = restcountries.NewClient(c.Config.Upstream.CountriesURL, httpClient)
	c.RateProvider = exchangerate.NewClient(c.Config.Upstream.RatesURL, httpClient)
}

func (c *Container) initRepositories() {
	if c.DB != nil {
		c.CountryRepo = countryRepo.NewPostgresRepository(c.DB.Pool)
		return
	}
	c.CountryRepo = countryRepo.NewMemoryRepository()
}

func (c *Container) initServices() {
	c.SummaryService = countryService.NewSummaryService(
		c.CountryRepo,
		c.Config.Summary.ImagePath,
		c.Config.Summary.FontPath,
		c.Uploader,
	)
	c.CountryService = countryService.NewCountryService(c.CountryRepo)
	c.RefreshService = countryService.NewRefreshService(
		c.CountryRepo,
		c.CountryDirectory,
		c.RateProvider,
		c.SummaryService,
	)
}

func (c *Container) initHandlers() {
	c.CountryHandler = countryHandler.NewCountryHandler(
		c.RefreshService,
		c.CountryService,
		c.SummaryService,
	)
}

// Cleanup đóng tất cả resources; an toàn khi container chỉ init một phần
func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")

	if c.DB != nil {
		c.DB.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close Redis")
		} else {
			log.Info().Msg("✅ Redis connections closed")
		}
	}

	log.Info().Msg("✅ Container cleanup completed")
}
