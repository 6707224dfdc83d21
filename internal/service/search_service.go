package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/densitymap/densitymap/internal/model"
	"github.com/meilisearch/meilisearch-go"
)

// SearchService fronts the Meilisearch username index used by the
// leaderboard search box. Typo-tolerant matching is the point; plain
// ILIKE remains the fallback when the index is down.
type SearchService interface {
	IndexUser(user *model.User) error
	SearchUsernames(ctx context.Context, query string) ([]string, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

type meiliUserDoc struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	searchable := []string{"username"}
	if _, err := s.client.Index("users").UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("Failed to update users searchable attributes: %v", err)
	}
}

func (s *meiliSearchService) IndexUser(user *model.User) error {
	doc := meiliUserDoc{
		ID:       user.ID.String(),
		Username: user.Username,
	}

	_, err := s.client.Index("users").AddDocuments([]meiliUserDoc{doc}, strPtr("id"))
	return err
}

func (s *meiliSearchService) SearchUsernames(ctx context.Context, query string) ([]string, error) {
	resp, err := s.client.Index("users").SearchWithContext(ctx, query, &meilisearch.SearchRequest{
		Limit: 200,
	})
	if err != nil {
		return nil, err
	}

	// Hits are decoded loosely; only the username field matters here.
	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}

	var docs []meiliUserDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	usernames := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Username != "" {
			usernames = append(usernames, doc.Username)
		}
	}
	return usernames, nil
}

func strPtr(s string) *string {
	return &s
}
