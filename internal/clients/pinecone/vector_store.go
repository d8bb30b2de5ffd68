package pinecone

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
)

// SimilarityHit is one nearest-neighbor result, already normalized to
// [0,1] by the index metric.
type SimilarityHit struct {
	UserID    uuid.UUID
	ProfileID uuid.UUID
	Score     float64
}

// VectorStore is the profile-embedding index the matching pipeline
// queries. Vectors are keyed by profile id and carry {user_id,
// profile_id} metadata so hits can be joined back to relational rows.
type VectorStore interface {
	UpsertProfileVector(ctx context.Context, embeddingID string, values []float32, userID, profileID uuid.UUID) error
	QuerySimilar(ctx context.Context, embeddingID string, topK int, excludeUserID uuid.UUID) ([]SimilarityHit, error)
}

type vectorStore struct {
	log       *logger.Logger
	pc        Client
	indexName string
	indexHost string
	namespace string
}

func NewVectorStore(log *logger.Logger, pc Client) (VectorStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if pc == nil {
		return nil, fmt.Errorf("pinecone client required")
	}

	indexName := strings.TrimSpace(os.Getenv("PINECONE_INDEX_NAME"))
	if indexName == "" {
		return nil, fmt.Errorf("missing PINECONE_INDEX_NAME")
	}

	host := strings.TrimSpace(os.Getenv("PINECONE_INDEX_HOST"))
	namespace := strings.TrimSpace(os.Getenv("PINECONE_NAMESPACE"))
	if namespace == "" {
		namespace = "profiles"
	}

	// If host missing, bootstrap via describe_index (fine for local/dev;
	// pin PINECONE_INDEX_HOST in prod).
	if host == "" {
		desc, err := pc.DescribeIndex(context.Background(), indexName)
		if err != nil {
			return nil, fmt.Errorf("pinecone describe_index failed: %w", err)
		}
		host = strings.TrimSpace(desc.Host)
		if host == "" {
			return nil, fmt.Errorf("pinecone describe_index returned empty host")
		}
		log.Warn("PINECONE_INDEX_HOST not set; resolved via describe_index",
			"index_name", indexName,
			"index_host", host,
		)
	}

	return &vectorStore{
		log:       log.With("service", "PineconeVectorStore"),
		pc:        pc,
		indexName: indexName,
		indexHost: host,
		namespace: namespace,
	}, nil
}

func (s *vectorStore) UpsertProfileVector(ctx context.Context, embeddingID string, values []float32, userID, profileID uuid.UUID) error {
	if strings.TrimSpace(embeddingID) == "" {
		return fmt.Errorf("embeddingID required")
	}
	if len(values) == 0 {
		return fmt.Errorf("vector values required")
	}
	_, err := s.pc.UpsertVectors(ctx, s.indexHost, UpsertRequest{
		Namespace: s.namespace,
		Vectors: []Vector{{
			ID:     embeddingID,
			Values: values,
			Metadata: map[string]any{
				"user_id":    userID.String(),
				"profile_id": profileID.String(),
			},
		}},
	})
	return err
}

func (s *vectorStore) QuerySimilar(ctx context.Context, embeddingID string, topK int, excludeUserID uuid.UUID) ([]SimilarityHit, error) {
	if strings.TrimSpace(embeddingID) == "" {
		return nil, fmt.Errorf("embeddingID required")
	}

	var filter map[string]any
	if excludeUserID != uuid.Nil {
		filter = map[string]any{
			"user_id": map[string]any{"$ne": excludeUserID.String()},
		}
	}

	resp, err := s.pc.Query(ctx, s.indexHost, QueryRequest{
		Namespace:       s.namespace,
		ID:              embeddingID,
		TopK:            topK,
		Filter:          filter,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, err
	}

	hits := make([]SimilarityHit, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		userID, ok := metadataUUID(m.Metadata, "user_id")
		if !ok {
			continue
		}
		profileID, ok := metadataUUID(m.Metadata, "profile_id")
		if !ok {
			continue
		}
		hits = append(hits, SimilarityHit{
			UserID:    userID,
			ProfileID: profileID,
			Score:     m.Score,
		})
	}
	return hits, nil
}

func metadataUUID(metadata map[string]any, key string) (uuid.UUID, bool) {
	raw, ok := metadata[key].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
