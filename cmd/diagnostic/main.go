// File: cmd/diagnostic/main.go
// Connectivity check for every upstream the server depends on: the
// embedding endpoint, the generative model, the vector index, and object
// storage. Run it before deploying a new configuration.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/docutalk/docutalk/internal/config"
	"github.com/docutalk/docutalk/internal/services"
	"github.com/docutalk/docutalk/internal/services/ai"
	"github.com/docutalk/docutalk/internal/services/pinecone"
	"github.com/docutalk/docutalk/internal/services/storage"
)

func main() {
	cfg := config.Load()
	logger := services.NewLogger("diagnostic")
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	failed := false

	aiConfig := ai.DefaultConfig()
	aiConfig.EmbeddingKey = cfg.EmbeddingAPIKey
	aiConfig.EmbeddingBaseURL = cfg.EmbeddingBaseURL
	aiConfig.EmbeddingModel = cfg.EmbeddingModelName
	aiConfig.EmbeddingDimensions = cfg.EmbeddingDimensions
	aiConfig.LLMKey = cfg.LLMAPIKey
	aiConfig.LLMBaseURL = cfg.LLMBaseURL
	aiConfig.LLMModel = cfg.LLMModelName

	if err := aiConfig.Validate(); err != nil {
		fmt.Printf("[FAIL] AI configuration: %v\n", err)
		os.Exit(1)
	}
	provider := ai.NewOpenAIProvider(aiConfig)

	if embedding, err := provider.CreateEmbedding(ctx, "diagnostic check"); err != nil {
		fmt.Printf("[FAIL] Embedding endpoint: %v\n", err)
		failed = true
	} else {
		fmt.Printf("[ OK ] Embedding endpoint (%s, %d dims)\n", cfg.EmbeddingModelName, len(embedding))
	}

	if reply, err := provider.GetCompletion(ctx, "Reply with the single word: ready"); err != nil {
		fmt.Printf("[FAIL] Generative model: %v\n", err)
		failed = true
	} else {
		fmt.Printf("[ OK ] Generative model (%s): %q\n", cfg.LLMModelName, reply)
	}

	pcConfig := pinecone.DefaultConfig()
	pcConfig.APIKey = cfg.PineconeAPIKey
	pcConfig.IndexHost = cfg.PineconeIndexHost
	pcConfig.Namespace = cfg.PineconeNamespace
	if client, err := pinecone.NewClientService(pcConfig, logger); err != nil {
		fmt.Printf("[FAIL] Vector index connection: %v\n", err)
		failed = true
	} else {
		if err := client.HealthCheck(ctx); err != nil {
			fmt.Printf("[FAIL] Vector index stats: %v\n", err)
			failed = true
		} else {
			fmt.Printf("[ OK ] Vector index (%s, namespace %q)\n", cfg.PineconeIndexHost, cfg.PineconeNamespace)
		}
		_ = client.Close()
	}

	if _, err := storage.NewMinioStore(&storage.Config{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		UseSSL:    cfg.StorageUseSSL,
	}); err != nil {
		fmt.Printf("[FAIL] Object storage: %v\n", err)
		failed = true
	} else {
		fmt.Printf("[ OK ] Object storage (%s, bucket %q)\n", cfg.StorageEndpoint, cfg.StorageBucket)
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("All upstream checks passed.")
}
