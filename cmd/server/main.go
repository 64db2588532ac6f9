// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/docutalk/docutalk/internal/config"
	"github.com/docutalk/docutalk/internal/domain"
	"github.com/docutalk/docutalk/internal/handlers"
	"github.com/docutalk/docutalk/internal/middleware"
	"github.com/docutalk/docutalk/internal/ratelimit"
	"github.com/docutalk/docutalk/internal/repository/channel"
	"github.com/docutalk/docutalk/internal/repository/document"
	"github.com/docutalk/docutalk/internal/repository/message"
	"github.com/docutalk/docutalk/internal/services"
	"github.com/docutalk/docutalk/internal/services/ai"
	"github.com/docutalk/docutalk/internal/services/chat"
	"github.com/docutalk/docutalk/internal/services/extract"
	"github.com/docutalk/docutalk/internal/services/ingest"
	"github.com/docutalk/docutalk/internal/services/pinecone"
	"github.com/docutalk/docutalk/internal/services/storage"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("docutalk")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.Channel{}, &domain.Document{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	channelRepo := channel.NewChannelRepository(db)
	documentRepo := document.NewDocumentRepository(db)
	messageRepo := message.NewMessageRepository(db)

	// --- AI provider ---
	aiConfig := ai.DefaultConfig()
	aiConfig.EmbeddingKey = cfg.EmbeddingAPIKey
	aiConfig.EmbeddingBaseURL = cfg.EmbeddingBaseURL
	aiConfig.EmbeddingModel = cfg.EmbeddingModelName
	aiConfig.EmbeddingDimensions = cfg.EmbeddingDimensions
	aiConfig.LLMKey = cfg.LLMAPIKey
	aiConfig.LLMBaseURL = cfg.LLMBaseURL
	aiConfig.LLMModel = cfg.LLMModelName
	if err := aiConfig.Validate(); err != nil {
		log.Fatalf("FATAL: AI configuration: %v", err)
	}
	aiProvider := ai.NewOpenAIProvider(aiConfig)

	// --- Vector index ---
	pcConfig := pinecone.DefaultConfig()
	pcConfig.APIKey = cfg.PineconeAPIKey
	pcConfig.IndexHost = cfg.PineconeIndexHost
	pcConfig.Namespace = cfg.PineconeNamespace
	pcClient, err := pinecone.NewClientService(pcConfig, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to vector index: %v", err)
	}
	defer pcClient.Close()
	vectors := pinecone.NewVectorService(pcClient, pinecone.NewRetryService(pcConfig, logger), pcConfig, logger)

	// --- Object storage ---
	store, err := storage.NewMinioStore(&storage.Config{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		UseSSL:    cfg.StorageUseSSL,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize object storage: %v", err)
	}

	// --- Ingestion pipeline ---
	ingestConfig := ingest.DefaultConfig()
	ingestConfig.ChunkSize = cfg.ChunkSize
	ingestConfig.ChunkOverlap = cfg.ChunkOverlap
	titles := ingest.NewTitleService(ingestConfig, aiProvider, logger)
	pipeline, err := ingest.NewPipeline(ingestConfig, extract.New(), titles,
		aiProvider, vectors, store, documentRepo, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize ingestion pipeline: %v", err)
	}

	// --- Query pipeline ---
	chatConfig := chat.DefaultConfig()
	chatConfig.RetrievalTopK = cfg.RetrievalTopK
	chatConfig.ContextCharBudget = cfg.ContextCharBudget
	chatConfig.HistoryWindow = cfg.HistoryWindow
	rag := chat.NewRAGService(chatConfig, logger)
	streaming, err := chat.NewStreamingService(chatConfig, aiProvider, vectors, rag, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize streaming service: %v", err)
	}
	threads := chat.NewThreadService(chatConfig, channelRepo, messageRepo, streaming, rag,
		aiProvider, pipeline, logger)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(cfg.ServiceAPIKey, []byte(cfg.JWTSecretKey))
	channelHandler := handlers.NewChannelHandler(threads)
	documentHandler := handlers.NewDocumentHandler(pipeline, documentRepo, channelRepo, store)
	queryHandler := handlers.NewQueryHandler(threads)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware([]byte(cfg.JWTSecretKey))
	ingestLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultIngestConfig())
	defer ingestLimiter.Close()
	queryLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultQueryConfig())
	defer queryLimiter.Close()

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")
	r.HandleFunc("/api/auth/token", authHandler.IssueToken).Methods("POST")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("/channels", channelHandler.ListChannels).Methods("GET")
	api.HandleFunc("/channels", channelHandler.CreateChannel).Methods("POST")
	api.HandleFunc("/channels/{id:[0-9]+}", channelHandler.RenameChannel).Methods("PATCH")
	api.HandleFunc("/channels/{id:[0-9]+}", channelHandler.DeleteChannel).Methods("DELETE")
	api.HandleFunc("/channels/{id:[0-9]+}/messages", channelHandler.GetChannelMessages).Methods("GET")
	api.HandleFunc("/channels/{id:[0-9]+}/documents", documentHandler.ListDocuments).Methods("GET")
	api.HandleFunc("/documents/{id:[0-9]+}", documentHandler.DeleteDocument).Methods("DELETE")
	api.HandleFunc("/documents/{id:[0-9]+}/download", documentHandler.DownloadDocument).Methods("GET")
	api.HandleFunc("/messages", channelHandler.DeleteMessages).Methods("DELETE")

	ingestRoute := api.PathPrefix("/ingest").Subrouter()
	ingestRoute.Use(middleware.RateLimitMiddleware(ingestLimiter, "ingest"))
	ingestRoute.HandleFunc("", documentHandler.Ingest).Methods("POST")

	queryRoutes := api.PathPrefix("").Subrouter()
	queryRoutes.Use(middleware.RateLimitMiddleware(queryLimiter, "query"))
	queryRoutes.HandleFunc("/query", queryHandler.Ask).Methods("POST")
	queryRoutes.HandleFunc("/messages/{id:[0-9]+}/edit", queryHandler.Edit).Methods("POST")

	// --- Server Configuration ---
	port := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("DocuTalk server starting on port %s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
