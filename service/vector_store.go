package service

import (
	"context"
	"fmt"

	"gdprlens-backend/models"
	"gdprlens-backend/repository"
)

// VectorStore is the production ChunkSearcher: it embeds the query text and
// runs a cosine-similarity search over the pgvector regulation index.
type VectorStore struct {
	embedder *EmbeddingClient
	repo     *repository.RegulationChunkRepository
}

// NewVectorStore creates a vector store
func NewVectorStore(embedder *EmbeddingClient, repo *repository.RegulationChunkRepository) *VectorStore {
	return &VectorStore{embedder: embedder, repo: repo}
}

// Search embeds the query and returns the most similar regulation chunks.
func (s *VectorStore) Search(ctx context.Context, query string, topK int, filters map[string]string) ([]models.Candidate, error) {
	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return s.repo.SearchSimilar(ctx, embedding, topK, filters)
}
