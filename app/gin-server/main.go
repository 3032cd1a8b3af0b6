package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/lexassist/lexassist/config"
	"github.com/lexassist/lexassist/internal/api/handlers"
	"github.com/lexassist/lexassist/internal/api/middleware"
	"github.com/lexassist/lexassist/internal/api/routes"
	"github.com/lexassist/lexassist/internal/cache"
	"github.com/lexassist/lexassist/internal/doctemplates"
	"github.com/lexassist/lexassist/internal/logger"
	"github.com/lexassist/lexassist/internal/providers/analyzer"
	"github.com/lexassist/lexassist/internal/providers/stt"
	"github.com/lexassist/lexassist/internal/render"
	mongorepo "github.com/lexassist/lexassist/internal/repositories/mongo"
	pgrepo "github.com/lexassist/lexassist/internal/repositories/postgres"
	"github.com/lexassist/lexassist/internal/services"
	"github.com/lexassist/lexassist/internal/storage"
	"github.com/lexassist/lexassist/internal/utils"
	"github.com/lexassist/lexassist/internal/workers"
)

func main() {
	_ = godotenv.Load()
	l := logger.New()

	ctx := context.Background()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.MigratePostgres(); err != nil {
		log.Fatalf("PostgreSQL migration error: %v", err)
	}
	fmt.Println("PostgreSQL connected")

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	fmt.Println("MongoDB connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	fmt.Println("Redis connected")

	db := config.PostgresDB
	sessionRepo := pgrepo.NewSessionRepo(db)
	turnRepo := pgrepo.NewTurnRepo(db)
	factRepo := pgrepo.NewFactRepo(db)
	fileRepo := pgrepo.NewFileRepo(db)
	userRepo := pgrepo.NewUserRepo(db)
	caseRepo := pgrepo.NewCaseRepo(db)
	caseFactRepo := pgrepo.NewCaseFactRepo(db)
	templateRepo := pgrepo.NewTemplateRepo(db)
	counterRepo := pgrepo.NewCounterRepo(db)

	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "lexassist"
	}
	exchangeRepo := mongorepo.NewExchangeRepo(config.MongoClient.Database(mongoDB))

	var provider analyzer.Provider
	switch strings.ToLower(os.Getenv("ANALYZER_MODE")) {
	case "agent":
		agent, err := analyzer.NewGeminiAgent(ctx,
			os.Getenv("VERTEX_PROJECT_ID"),
			os.Getenv("VERTEX_LOCATION"),
			os.Getenv("VERTEX_MODEL"),
			l)
		if err != nil {
			log.Fatalf("Vertex init error: %v", err)
		}
		defer agent.Close()
		provider = agent
	default:
		provider = analyzer.NewHTTPClient(os.Getenv("ANALYZER_URL"), l)
	}

	var sttProvider stt.Provider
	if os.Getenv("DISABLE_STT") != "true" {
		gs, err := stt.NewGoogleSpeech(ctx)
		if err != nil {
			l.WithError(err).Warn("speech client unavailable; voice needs client transcripts")
		} else {
			defer gs.Close()
			sttProvider = gs
		}
	}

	var uploader storage.Uploader
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		gu, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer gu.Close()
		uploader = gu
	}

	redisCache := cache.NewRedisCache(config.RedisClient)

	sessionSvc := services.NewSessionService(services.SessionServiceDeps{
		Sessions:  sessionRepo,
		Turns:     turnRepo,
		Facts:     factRepo,
		Files:     fileRepo,
		Users:     userRepo,
		Exchanges: exchangeRepo,
		Analyzer:  provider,
		STT:       sttProvider,
		Uploader:  uploader,
		Cache:     redisCache,
		Redis:     config.RedisClient,
		Logger:    l,
	})

	refGen := utils.NewReferenceNumberGenerator(counterRepo)
	caseSvc := services.NewCaseService(caseRepo, caseFactRepo, refGen)

	resolver := doctemplates.NewResolver(templateRepo)
	documentSvc := services.NewDocumentService(sessionRepo, factRepo, resolver, render.NewHTMLRenderer())
	templateSvc := services.NewTemplateService(templateRepo)

	if sttProvider != nil {
		pool := &workers.VoiceWorkerPool{
			Redis:    config.RedisClient,
			Sessions: sessionSvc,
			STT:      sttProvider,
			Logger:   l,
		}
		if err := pool.Start(ctx); err != nil {
			log.Fatalf("voice worker error: %v", err)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(getenvDefault("CORS_ORIGINS", "*"), ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Session:  handlers.NewSessionHandler(sessionSvc),
		Case:     handlers.NewCaseHandler(caseSvc),
		Document: handlers.NewDocumentHandler(documentSvc),
		Template: handlers.NewTemplateHandler(templateSvc),
		WS:       handlers.NewWSHandler(sessionSvc, config.RedisClient),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
