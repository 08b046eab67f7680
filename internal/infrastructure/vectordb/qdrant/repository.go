// Package qdrant provides a VectorDB implementation using Qdrant.
package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/ports"
	"github.com/ersonp/world-core/internal/infrastructure/config"
)

// Repository implements the VectorDB interface using Qdrant.
type Repository struct {
	client     pb.CollectionsClient
	points     pb.PointsClient
	collection string
	conn       *grpc.ClientConn
}

// NewRepository creates a new Qdrant repository.
func NewRepository(cfg config.QdrantConfig) (*Repository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Repository{
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
		collection: cfg.Collection,
		conn:       conn,
	}, nil
}

// Close closes the gRPC connection.
func (r *Repository) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// EnsureCollection creates the collection if it doesn't exist.
func (r *Repository) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	_, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err == nil {
		return nil
	}

	_, err = r.client.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// DeleteCollection drops the collection. Used by integration tests.
func (r *Repository) DeleteCollection(ctx context.Context) error {
	_, err := r.client.Delete(ctx, &pb.DeleteCollection{
		CollectionName: r.collection,
	})
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// Index stores an entity's description embedding.
func (r *Repository) Index(ctx context.Context, entity *entities.Entity, embedding []float32) error {
	return r.IndexBatch(ctx, []*entities.Entity{entity}, [][]float32{embedding})
}

// IndexBatch stores multiple entities with their embeddings.
func (r *Repository) IndexBatch(ctx context.Context, ents []*entities.Entity, embeddings [][]float32) error {
	if len(ents) != len(embeddings) {
		return fmt.Errorf("entity/embedding count mismatch: %d != %d", len(ents), len(embeddings))
	}

	points := make([]*pb.PointStruct, 0, len(ents))
	for i, e := range ents {
		point := &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{
					Uuid: pointID(e.ID),
				},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{
						Data: embeddings[i],
					},
				},
			},
			Payload: map[string]*pb.Value{
				"entity_id": {Kind: &pb.Value_StringValue{StringValue: e.ID}},
				"kind":      {Kind: &pb.Value_StringValue{StringValue: string(e.Kind)}},
				"name":      {Kind: &pb.Value_StringValue{StringValue: e.Name}},
				"category":  {Kind: &pb.Value_StringValue{StringValue: e.Category}},
				"region":    {Kind: &pb.Value_StringValue{StringValue: e.Position.Region}},
			},
		}
		points = append(points, point)
	}

	_, err := r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upserting points: %w", err)
	}

	return nil
}

// Search returns entities closest to the query embedding.
func (r *Repository) Search(ctx context.Context, embedding []float32, limit int) ([]ports.EntityHit, error) {
	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         embedding,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching points: %w", err)
	}

	return scoredPointsToHits(resp.Result), nil
}

// SearchByKind restricts Search to one entity kind.
func (r *Repository) SearchByKind(ctx context.Context, embedding []float32, kind entities.Kind, limit int) ([]ports.EntityHit, error) {
	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         embedding,
		Limit:          uint64(limit),
		Filter: &pb.Filter{
			Must: []*pb.Condition{
				{
					ConditionOneOf: &pb.Condition_Field{
						Field: &pb.FieldCondition{
							Key: "kind",
							Match: &pb.Match{
								MatchValue: &pb.Match_Keyword{
									Keyword: string(kind),
								},
							},
						},
					},
				},
			},
		},
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching points by kind: %w", err)
	}

	return scoredPointsToHits(resp.Result), nil
}

// Delete removes an entity from the index.
func (r *Repository) Delete(ctx context.Context, entityID string) error {
	_, err := r.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{
						{PointIdOptions: &pb.PointId_Uuid{Uuid: pointID(entityID)}},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting point: %w", err)
	}

	return nil
}

// pointID derives a stable point UUID from an entity identifier. Qdrant
// point IDs must be UUIDs; entity identifiers are human-legible slugs, so
// they are hashed into the UUID namespace instead of stored directly.
func pointID(entityID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(entityID)).String()
}

// scoredPointsToHits converts search results to EntityHits.
func scoredPointsToHits(points []*pb.ScoredPoint) []ports.EntityHit {
	hits := make([]ports.EntityHit, 0, len(points))
	for _, p := range points {
		payload := p.GetPayload()
		hits = append(hits, ports.EntityHit{
			EntityID: payload["entity_id"].GetStringValue(),
			Kind:     entities.Kind(payload["kind"].GetStringValue()),
			Name:     payload["name"].GetStringValue(),
			Category: payload["category"].GetStringValue(),
			Region:   payload["region"].GetStringValue(),
			Score:    p.GetScore(),
		})
	}
	return hits
}
