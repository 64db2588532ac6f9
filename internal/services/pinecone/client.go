// File: internal/services/pinecone/client.go
package pinecone

import (
	"context"

	sdk "github.com/pinecone-io/go-pinecone/v4/pinecone"
)

// ClientService owns the Pinecone client and index connection.
type ClientService struct {
	config *Config
	client *sdk.Client
	index  *sdk.IndexConnection
	logger Logger
}

func NewClientService(config *Config, logger Logger) (*ClientService, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	client, err := sdk.NewClient(sdk.NewClientParams{ApiKey: config.APIKey})
	if err != nil {
		return nil, NewConnectionError("failed to create pinecone client", err)
	}

	index, err := client.Index(sdk.NewIndexConnParams{
		Host:      config.IndexHost,
		Namespace: config.Namespace,
	})
	if err != nil {
		return nil, NewConnectionError("failed to connect to index", err)
	}

	logger.Info("pinecone index connection established",
		"host", config.IndexHost,
		"namespace", config.Namespace)

	return &ClientService{
		config: config,
		client: client,
		index:  index,
		logger: logger,
	}, nil
}

func (c *ClientService) Index() *sdk.IndexConnection {
	return c.index
}

// HealthCheck verifies the index is reachable.
func (c *ClientService) HealthCheck(ctx context.Context) error {
	if _, err := c.index.DescribeIndexStats(ctx); err != nil {
		return NewConnectionError("index stats request failed", err)
	}
	return nil
}

func (c *ClientService) Close() error {
	return c.index.Close()
}
