package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/skillpath/career/analysis"
	"github.com/Abraxas-365/skillpath/career/analysis/analysisapi"
	"github.com/Abraxas-365/skillpath/career/analysis/analysisinfra"
	"github.com/Abraxas-365/skillpath/career/analysis/analysissrv"
	"github.com/Abraxas-365/skillpath/career/analysis/worker"
	"github.com/Abraxas-365/skillpath/career/roadmap/roadmapapi"
	"github.com/Abraxas-365/skillpath/career/roadmap/roadmapinfra"
	"github.com/Abraxas-365/skillpath/career/roadmap/roadmapsrv"
	"github.com/Abraxas-365/skillpath/career/user/userapi"
	"github.com/Abraxas-365/skillpath/career/user/userinfra"
	"github.com/Abraxas-365/skillpath/career/user/usersrv"
	"github.com/Abraxas-365/skillpath/internal/ai/resumeparser"
	"github.com/Abraxas-365/skillpath/internal/skills"
	"github.com/Abraxas-365/skillpath/pkg/fsx"
	"github.com/Abraxas-365/skillpath/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/skillpath/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/skillpath/pkg/iam/auth"
	"github.com/Abraxas-365/skillpath/pkg/logx"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies
type Container struct {
	Config *Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client
	JobQueue   *analysisinfra.RedisQueue

	// Services
	TokenService     auth.TokenService
	UserService      *usersrv.UserService
	DashboardService *usersrv.DashboardService
	AnalysisService  *analysissrv.Service
	RoadmapService   *roadmapsrv.Service

	// Background
	AnalysisWorker *worker.AnalysisWorker

	// API Handlers
	UserHandlers     *userapi.Handlers
	AnalysisHandlers *analysisapi.Handlers
	RoadmapHandlers  *roadmapapi.Handlers

	// Middleware
	AuthMiddleware fiber.Handler
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *Config) *Container {
	c := &Container{Config: cfg}
	c.initInfrastructure()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	cfg := c.Config

	// 1. Database Connection
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	c.DB = db

	// 2. Redis Connection
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 3. Resume storage: S3 when a bucket is configured
	if cfg.Storage.Bucket != "" {
		awsCfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(cfg.Storage.Region))
		if err != nil {
			logx.Fatalf("unable to load SDK config, %v", err)
		}
		c.S3Client = s3.NewFromConfig(awsCfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, cfg.Storage.Bucket, cfg.Storage.Prefix)
		logx.Infof("Resume storage: s3://%s/%s", cfg.Storage.Bucket, cfg.Storage.Prefix)
	} else {
		c.FileSystem = fsxlocal.NewLocalFileSystem(cfg.Storage.LocalDir)
		logx.Warnf("AWS_BUCKET is not set, storing resumes under %s", cfg.Storage.LocalDir)
	}

	// 4. Auth
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		logx.Warn("JWT_SECRET is not set, using default (unsafe for production)")
		secret = devJWTSecret
	}
	c.TokenService = auth.NewJWTTokenService(secret, cfg.Auth.Issuer, cfg.AccessTTL())
}

func (c *Container) initServices() {
	cfg := c.Config

	// --- Repositories ---
	userRepo := userinfra.NewPostgresUserRepository(c.DB)
	analysisRepo := analysisinfra.NewPostgresAnalysisRepository(c.DB)
	roadmapRepo := roadmapinfra.NewPostgresRoadmapRepository(c.DB)

	// --- Infrastructure Services ---
	c.JobQueue = analysisinfra.NewRedisQueue(c.Redis, cfg.Analysis.QueueName)
	shareCache := roadmapinfra.NewRedisShareTokenCache(c.Redis)

	// Skill extractors, tried in order
	var extractors []analysis.SkillExtractor
	if cfg.Analysis.OpenAIAPIKey != "" {
		extractors = append(extractors, resumeparser.NewSkillParser(cfg.Analysis.OpenAIAPIKey, cfg.Analysis.OpenAIModel))
	} else {
		logx.Warn("OPENAI_API_KEY is not set, image resumes cannot be analyzed")
	}
	extractors = append(extractors, skills.NewKeywordExtractor())

	// --- Domain Services ---
	c.UserService = usersrv.NewUserService(userRepo, c.TokenService)
	c.AnalysisService = analysissrv.NewService(analysisRepo, c.JobQueue, c.FileSystem, extractors...)
	c.RoadmapService = roadmapsrv.NewService(roadmapRepo, shareCache, c.AnalysisService, cfg.FrontendURL, cfg.ShareTokenTTL())
	c.DashboardService = usersrv.NewDashboardService(c.UserService, c.AnalysisService, c.RoadmapService)

	c.AnalysisWorker = worker.NewAnalysisWorker(c.AnalysisService, c.JobQueue, cfg.Analysis.Workers)

	// --- Handlers ---
	c.UserHandlers = userapi.NewHandlers(c.UserService, c.DashboardService)
	c.AnalysisHandlers = analysisapi.NewHandlers(c.AnalysisService)
	c.RoadmapHandlers = roadmapapi.NewHandlers(c.RoadmapService)

	// --- Middleware ---
	c.AuthMiddleware = auth.Authenticate(c.TokenService)
}

// Close releases infrastructure connections
func (c *Container) Close() {
	if err := c.Redis.Close(); err != nil {
		logx.Warnf("Failed to close Redis: %v", err)
	}
	if err := c.DB.Close(); err != nil {
		logx.Warnf("Failed to close database: %v", err)
	}
}
