// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"strings"

	"diagnostic-workers/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// leadIndexMapping keeps the classification axes as keywords so the admin
// dashboard can filter and aggregate on them.
const leadIndexMapping = `{
  "mappings": {
    "properties": {
      "leadId":              {"type": "keyword"},
      "email":               {"type": "keyword"},
      "name":                {"type": "text"},
      "company":             {"type": "text"},
      "stage":               {"type": "keyword"},
      "bottleneck":          {"type": "keyword"},
      "engagementReadiness": {"type": "keyword"},
      "recommendedSystem":   {"type": "keyword"},
      "source":              {"type": "keyword"},
      "fallbackOffer":       {"type": "boolean"},
      "answers":             {"type": "object", "enabled": false},
      "createdAt":           {"type": "date"}
    }
  }
}`

// ElasticsearchClient wraps the Elasticsearch client
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

// NewElasticsearch creates a new Elasticsearch client
func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.GetAddresses(),
	}

	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &ElasticsearchClient{Client: es}, nil
}

// Ping tests the Elasticsearch connection
func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	res, err := c.Client.Ping(
		c.Client.Ping.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}

	return nil
}

// EnsureLeadIndex creates the lead index with its mapping unless it exists.
func (c *ElasticsearchClient) EnsureLeadIndex(ctx context.Context, index string) error {
	res, err := c.Client.Indices.Exists(
		[]string{index},
		c.Client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index check failed: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	res, err = c.Client.Indices.Create(
		index,
		c.Client.Indices.Create.WithBody(strings.NewReader(leadIndexMapping)),
		c.Client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index create failed: %w", err)
	}
	defer res.Body.Close()

	// 400 resource_already_exists_exception when another worker won the race
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("elasticsearch index create error: %s", res.Status())
	}
	return nil
}
