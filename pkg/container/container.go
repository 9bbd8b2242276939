package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"

	"journal-backend/internal/config"
	"journal-backend/internal/infrastructure/accounts"
	infraCache "journal-backend/internal/infrastructure/cache"
	"journal-backend/internal/infrastructure/database"
	"journal-backend/internal/infrastructure/email"
	"journal-backend/internal/infrastructure/queue"
	"journal-backend/internal/infrastructure/storage"
	"journal-backend/internal/infrastructure/stripe"
	pkgdb "journal-backend/pkg/database"
	"journal-backend/pkg/jwt"

	assignmentHandler "journal-backend/internal/domains/assignment/handler"
	assignmentJob "journal-backend/internal/domains/assignment/job"
	assignmentRepo "journal-backend/internal/domains/assignment/repository"
	assignmentService "journal-backend/internal/domains/assignment/service"
	auditHandler "journal-backend/internal/domains/audit/handler"
	auditRepo "journal-backend/internal/domains/audit/repository"
	auditService "journal-backend/internal/domains/audit/service"
	decisionHandler "journal-backend/internal/domains/decision/handler"
	decisionService "journal-backend/internal/domains/decision/service"
	paymentHandler "journal-backend/internal/domains/payment/handler"
	paymentJob "journal-backend/internal/domains/payment/job"
	paymentService "journal-backend/internal/domains/payment/service"
	publicationHandler "journal-backend/internal/domains/publication/handler"
	publicationJob "journal-backend/internal/domains/publication/job"
	publicationRepo "journal-backend/internal/domains/publication/repository"
	publicationService "journal-backend/internal/domains/publication/service"
	reviewHandler "journal-backend/internal/domains/review/handler"
	reviewRepo "journal-backend/internal/domains/review/repository"
	reviewService "journal-backend/internal/domains/review/service"
	reviewerHandler "journal-backend/internal/domains/reviewer/handler"
	reviewerRepo "journal-backend/internal/domains/reviewer/repository"
	reviewerService "journal-backend/internal/domains/reviewer/service"
	submissionHandler "journal-backend/internal/domains/submission/handler"
	submissionRepo "journal-backend/internal/domains/submission/repository"
	submissionService "journal-backend/internal/domains/submission/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the whole dependency graph. Built once at startup,
// shared by the API server and the worker.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       *infraCache.RedisCache
	ViewCounter *infraCache.ViewCounter
	JWTManager  *jwt.Manager
	Storage     storage.ObjectStorage
	Email       email.EmailService
	Stripe      *stripe.Client
	AsynqClient *asynq.Client
	Enqueuer    queue.Enqueuer

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	SubmissionRepo  submissionRepo.SubmissionRepository
	ReviewerRepo    reviewerRepo.ReviewerRepository
	AssignmentRepo  assignmentRepo.AssignmentRepository
	ReviewRepo      reviewRepo.ReviewRepository
	ArticleRepo     publicationRepo.ArticleRepository
	AuditRepo       auditRepo.AuditRepository
	AccountDir      accounts.Directory
	AuthorDirectory accounts.AuthorDirectory

	// ========================================
	// SERVICE LAYER
	// ========================================
	SubmissionService  submissionService.SubmissionService
	ReviewerService    reviewerService.ReviewerService
	AssignmentService  assignmentService.AssignmentService
	ReviewService      reviewService.ReviewService
	DecisionService    decisionService.DecisionService
	PublicationService publicationService.PublicationService
	PaymentService     paymentService.PaymentService
	AuditService       auditService.AuditService
	AccountService     accounts.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	SubmissionHandler  *submissionHandler.SubmissionHandler
	ReviewerHandler    *reviewerHandler.ReviewerHandler
	AssignmentHandler  *assignmentHandler.AssignmentHandler
	ReviewHandler      *reviewHandler.ReviewHandler
	DecisionHandler    *decisionHandler.DecisionHandler
	PublicationHandler *publicationHandler.PublicationHandler
	PaymentHandler     *paymentHandler.PaymentHandler
	AuditHandler       *auditHandler.AuditHandler
	AccountHandler     *accounts.Handler

	// ========================================
	// JOB HANDLERS (worker only)
	// ========================================
	ReviewCopyJob        *assignmentJob.ReviewCopyHandler
	ReminderJob          *assignmentJob.ReminderHandler
	PublicationNoticeJob *publicationJob.PublicationNoticeHandler
	ViewCountFlushJob    *publicationJob.ViewCountFlushHandler
	ExpireCheckoutsJob   *paymentJob.ExpireCheckoutsHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer initializes the dependency graph in order: config,
// infrastructure, repositories, services, handlers, jobs.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE REDIS
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	c.Cache = infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Cache.Ping(context.Background()); err != nil {
		// Redis failure is not critical, the cache degrades to misses
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}
	c.ViewCounter = infraCache.NewViewCounter(c.Cache)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// ========================================
	// STEP 4: INITIALIZE OBJECT STORAGE
	// ========================================
	if cfg.UseMinIO() {
		log.Println("📁 Connecting to MinIO...")
		minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("failed to init minio storage: %w", err)
		}
		c.Storage = minioStorage
		log.Println("✅ MinIO connected")
	} else {
		log.Println("📁 Using local filesystem storage")
		localStorage, err := storage.NewLocalStorage(cfg.Storage.LocalDir, cfg.App.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to init local storage: %w", err)
		}
		c.Storage = localStorage
	}

	// ========================================
	// STEP 5: EMAIL, STRIPE, QUEUE CLIENT
	// ========================================
	c.Email = email.NewSMTPEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.Journal.Name)
	c.Stripe = stripe.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.APIURL, cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	c.Enqueuer = queue.NewAsynqEnqueuer(c.AsynqClient)

	// ========================================
	// STEP 6: REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 7: SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 8: HANDLERS AND JOBS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	c.initJobs()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.SubmissionRepo = submissionRepo.NewPostgresRepository(pool, c.Cache)
	c.ReviewerRepo = reviewerRepo.NewPostgresRepository(pool)
	c.AssignmentRepo = assignmentRepo.NewPostgresRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresRepository(pool)
	c.ArticleRepo = publicationRepo.NewPostgresRepository(pool, c.Cache)
	c.AuditRepo = auditRepo.NewPostgresRepository(pool)
	c.AccountDir = accounts.NewPostgresDirectory(pool)
	c.AuthorDirectory = accounts.NewPostgresAuthorDirectory(pool)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.AuditService = auditService.NewAuditService(c.AuditRepo)
	c.AccountService = accounts.NewService(c.AccountDir, c.JWTManager)

	c.SubmissionService = submissionService.NewSubmissionService(
		c.SubmissionRepo,
		c.AuthorDirectory,
		c.Email,
		c.AuditService,
	)

	c.ReviewerService = reviewerService.NewReviewerService(c.ReviewerRepo, cfg.Journal.Name)

	c.AssignmentService = assignmentService.NewAssignmentService(
		c.AssignmentRepo,
		c.SubmissionRepo,
		c.ReviewerRepo,
		c.Email,
		c.Enqueuer,
		c.AuditService,
	)

	c.ReviewService = reviewService.NewReviewService(
		c.ReviewRepo,
		c.AssignmentRepo,
		c.SubmissionRepo,
		c.Email,
		c.AuditService,
	)

	c.DecisionService = decisionService.NewDecisionService(
		c.SubmissionRepo,
		c.AuthorDirectory,
		c.Email,
		c.AuditService,
	)

	pool := c.DB.Pool
	runTx := func(ctx context.Context, fn func(tx pgx.Tx) error) error {
		return pkgdb.WithTransaction(ctx, pool, fn)
	}

	c.PublicationService = publicationService.NewPublicationService(
		c.ArticleRepo,
		c.SubmissionRepo,
		c.ReviewRepo,
		c.AssignmentRepo,
		c.AuthorDirectory,
		c.Storage,
		c.Enqueuer,
		c.AuditService,
		c.ViewCounter,
		runTx,
		cfg.Journal.Name,
		cfg.Journal.ISSN,
	)

	c.PaymentService = paymentService.NewPaymentService(
		c.SubmissionRepo,
		c.AuthorDirectory,
		c.Stripe,
		c.Email,
		c.AuditService,
		cfg.Stripe.WebhookSecret,
	)
}

func (c *Container) initHandlers() {
	c.SubmissionHandler = submissionHandler.NewSubmissionHandler(c.SubmissionService)
	c.ReviewerHandler = reviewerHandler.NewReviewerHandler(c.ReviewerService)
	c.AssignmentHandler = assignmentHandler.NewAssignmentHandler(c.AssignmentService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
	c.DecisionHandler = decisionHandler.NewDecisionHandler(c.DecisionService)
	c.PublicationHandler = publicationHandler.NewPublicationHandler(c.PublicationService)
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService)
	c.AuditHandler = auditHandler.NewAuditHandler(c.AuditService)
	c.AccountHandler = accounts.NewHandler(c.AccountService)
}

func (c *Container) initJobs() {
	cfg := c.Config

	c.ReviewCopyJob = assignmentJob.NewReviewCopyHandler(
		c.AssignmentRepo,
		c.SubmissionRepo,
		c.AuthorDirectory,
		c.Storage,
		c.Email,
		cfg.Journal.Name,
	)
	c.ReminderJob = assignmentJob.NewReminderHandler(
		c.AssignmentRepo,
		c.SubmissionRepo,
		c.Email,
	)
	c.PublicationNoticeJob = publicationJob.NewPublicationNoticeHandler(
		c.ArticleRepo,
		c.SubmissionRepo,
		c.AuthorDirectory,
		c.Email,
		cfg.App.BaseURL,
	)
	c.ViewCountFlushJob = publicationJob.NewViewCountFlushHandler(c.ArticleRepo, c.ViewCounter)
	c.ExpireCheckoutsJob = paymentJob.NewExpireCheckoutsHandler(c.SubmissionRepo, c.AuditService)
}

// Cleanup releases shared resources on shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Container cleanup completed")
}
