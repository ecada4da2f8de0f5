// Package qdrant adapts the Qdrant vector database to the indexing and
// search contracts: idempotent collection creation, overwrite-by-id upsert,
// cosine similarity search, and delete-by-id.
package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/forumlab/forumsearch/internal/domain"
)

// Config configures the Qdrant gRPC client.
type Config struct {
	// Host is the Qdrant server hostname or IP address. Default: "localhost".
	Host string

	// Port is the Qdrant gRPC port (6334), not the HTTP REST port (6333).
	Port int

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool

	// APIKey is the optional API key. Leave empty for local development.
	APIKey string

	// Dimensions, when positive, is enforced on every upserted vector.
	Dimensions int

	// RequestTimeout bounds each individual request. Default: 30s.
	RequestTimeout time.Duration

	// DialTimeout bounds the initial health check. Default: 5s.
	DialTimeout time.Duration
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
}

// Client wraps the official Qdrant Go client with request timeouts and the
// point/payload conversions this service needs.
type Client struct {
	client  *qdrant.Client
	timeout time.Duration
	dims    int
	logger  *zap.Logger
}

// NewClient connects to Qdrant and verifies the connection with a health check.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	cfg.ApplyDefaults()

	qdrantCfg := &qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		UseTLS: cfg.UseTLS,
		APIKey: cfg.APIKey,
	}
	if !cfg.UseTLS {
		qdrantCfg.GrpcOptions = []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		}
	}

	client, err := qdrant.NewClient(qdrantCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	c := &Client{
		client:  client,
		timeout: cfg.RequestTimeout,
		dims:    cfg.Dimensions,
		logger:  logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("health check failed: %w", err)
	}

	logger.Info("Connected to qdrant",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)

	return c, nil
}

// Ping performs a health check on the Qdrant connection.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// EnsureCollection creates a cosine-distance collection if it does not exist.
// Safe to call repeatedly; an existing collection is left untouched.
func (c *Client) EnsureCollection(ctx context.Context, name string, dims int) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	exists, err := c.collectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", name, err)
	}
	if exists {
		return nil
	}

	err = c.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dims),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}

	c.logger.Info("Created collection", zap.String("collection", name), zap.Int("dims", dims))
	return nil
}

func (c *Client) collectionExists(ctx context.Context, name string) (bool, error) {
	info, err := c.client.GetCollectionInfo(ctx, name)
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return info != nil, nil
}

// Upsert overwrites the point for the given document id in a collection.
func (c *Client) Upsert(ctx context.Context, collection string, doc domain.Document) error {
	if c.dims > 0 && len(doc.Vector) != c.dims {
		return fmt.Errorf("%w: got %d, want %d", domain.ErrVectorDimMismatch, len(doc.Vector), c.dims)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points: []*qdrant.PointStruct{{
			Id:      pointID(doc.ID),
			Vectors: qdrant.NewVectors(doc.Vector...),
			Payload: toQdrantPayload(doc.Payload),
		}},
	})
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, doc.ID, err)
	}
	return nil
}

// Search runs cosine nearest-neighbor search, highest score first.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, limit int) ([]domain.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	points, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", collection, err)
	}

	results := make([]domain.SearchResult, len(points))
	for i, p := range points {
		payload := fromQdrantPayload(p.Payload)
		results[i] = domain.SearchResult{
			ID:      resultID(p.Id, payload),
			Score:   p.Score,
			Payload: payload,
		}
	}
	return results, nil
}

// Delete removes the point for the given document id from a collection.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{
					Ids: []*qdrant.PointId{pointID(id)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
