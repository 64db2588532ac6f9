// File: internal/services/pinecone/repository.go
package pinecone

import (
	"context"

	sdk "github.com/pinecone-io/go-pinecone/v4/pinecone"
	"google.golang.org/protobuf/types/known/structpb"
)

// VectorService implements VectorRepository on top of the SDK index
// connection, with retry around every call.
type VectorService struct {
	client *ClientService
	retry  *RetryService
	config *Config
	logger Logger
}

func NewVectorService(client *ClientService, retry *RetryService, config *Config, logger Logger) *VectorService {
	return &VectorService{
		client: client,
		retry:  retry,
		config: config,
		logger: logger,
	}
}

func (v *VectorService) UpsertBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	vectors := make([]*sdk.Vector, 0, len(records))
	for i := range records {
		metadata, err := structpb.NewStruct(map[string]interface{}{
			"text":       records[i].Metadata.Text,
			"title":      records[i].Metadata.Title,
			"channel_id": records[i].Metadata.ChannelID,
		})
		if err != nil {
			return NewOperationError("failed to build vector metadata", err)
		}
		values := records[i].Values
		vectors = append(vectors, &sdk.Vector{
			Id:       records[i].ID,
			Values:   &values,
			Metadata: metadata,
		})
	}

	v.logger.Debug("upserting vectors", "count", len(vectors))
	return v.retry.RetryWithTimeout(ctx, func(ctx context.Context) error {
		if _, err := v.client.Index().UpsertVectors(ctx, vectors); err != nil {
			return NewOperationError("batch upsert failed", err)
		}
		return nil
	})
}

func (v *VectorService) QuerySimilar(ctx context.Context, embedding []float32, channelID string, topK int) ([]Match, error) {
	filter, err := structpb.NewStruct(map[string]interface{}{
		"channel_id": map[string]interface{}{"$eq": channelID},
	})
	if err != nil {
		return nil, NewOperationError("failed to build metadata filter", err)
	}

	var matches []Match
	err = v.retry.RetryWithTimeout(ctx, func(ctx context.Context) error {
		resp, err := v.client.Index().QueryByVectorValues(ctx, &sdk.QueryByVectorValuesRequest{
			Vector:          embedding,
			TopK:            uint32(topK),
			MetadataFilter:  filter,
			IncludeMetadata: true,
		})
		if err != nil {
			return NewOperationError("similarity query failed", err)
		}

		matches = matches[:0]
		for _, m := range resp.Matches {
			if m == nil || m.Vector == nil {
				continue
			}
			matches = append(matches, Match{
				ID:       m.Vector.Id,
				Score:    m.Score,
				Metadata: metadataFromStruct(m.Vector.Metadata),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	v.logger.Debug("similarity query completed", "matches", len(matches), "channel_id", channelID)
	return matches, nil
}

func (v *VectorService) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	v.logger.Debug("deleting vectors", "count", len(ids))
	return v.retry.RetryWithTimeout(ctx, func(ctx context.Context) error {
		if err := v.client.Index().DeleteVectorsById(ctx, ids); err != nil {
			return NewOperationError("batch delete failed", err)
		}
		return nil
	})
}

func metadataFromStruct(s *sdk.Metadata) Metadata {
	if s == nil {
		return Metadata{}
	}
	fields := s.GetFields()
	return Metadata{
		Text:      fields["text"].GetStringValue(),
		Title:     fields["title"].GetStringValue(),
		ChannelID: fields["channel_id"].GetStringValue(),
	}
}
