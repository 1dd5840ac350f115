package opensearch

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mstgnz/perfectmoney/infra/config"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Log kinds, one index each
const (
	KindCallback = "callback"
	KindAPI      = "api"
	KindSystem   = "system"
)

// Client wraps the OpenSearch client
type Client struct {
	client *opensearch.Client
	config *config.AppConfig
}

// NewClient creates a new OpenSearch client
func NewClient(cfg *config.AppConfig) (*Client, error) {
	opensearchConfig := opensearch.Config{
		Addresses: []string{cfg.OpenSearchURL},
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				// self-signed certificates outside production
				InsecureSkipVerify: cfg.Environment != "production",
			},
		},
		MaxRetries:    3,
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			return time.Duration(i) * 100 * time.Millisecond
		},
	}

	if cfg.OpenSearchUser != "" && cfg.OpenSearchPass != "" {
		opensearchConfig.Username = cfg.OpenSearchUser
		opensearchConfig.Password = cfg.OpenSearchPass
	}

	client, err := opensearch.NewClient(opensearchConfig)
	if err != nil {
		return nil, err
	}

	osClient := &Client{
		client: client,
		config: cfg,
	}

	if cfg.EnableLogging {
		if err := osClient.setupIndices(context.Background()); err != nil {
			log.Printf("Warning: Failed to setup OpenSearch indices: %v", err)
		}
	}

	return osClient, nil
}

// GetClient returns the underlying OpenSearch client
func (c *Client) GetClient() *opensearch.Client {
	return c.client
}

// setupIndices creates the callback and API call indices with their mappings
func (c *Client) setupIndices(ctx context.Context) error {
	var failed []string
	for _, kind := range []string{KindCallback, KindAPI} {
		indexName := c.GetLogIndexName(kind)

		exists, err := c.indexExists(ctx, indexName)
		if err != nil {
			failed = append(failed, indexName)
			continue
		}

		if !exists {
			if err := c.createLogIndex(ctx, indexName); err != nil {
				log.Printf("Error creating index %s: %v", indexName, err)
				failed = append(failed, indexName)
				continue
			}
			log.Printf("Created OpenSearch index: %s", indexName)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("indices not ready: %s", strings.Join(failed, ", "))
	}
	return nil
}

func (c *Client) indexExists(ctx context.Context, indexName string) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{
		Index: []string{indexName},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	return res.StatusCode == http.StatusOK, nil
}

// createLogIndex creates an index with the mapping shared by callback and API logs
func (c *Client) createLogIndex(ctx context.Context, indexName string) error {
	mapping := `{
		"mappings": {
			"properties": {
				"timestamp": {
					"type": "date",
					"format": "strict_date_optional_time||epoch_millis"
				},
				"component": {"type": "keyword"},
				"request_id": {"type": "keyword"},
				"client_ip": {"type": "ip"},
				"user_agent": {"type": "text"},
				"method": {"type": "keyword"},
				"path": {"type": "keyword"},
				"script": {"type": "keyword"},
				"endpoint": {"type": "keyword"},
				"result": {"type": "keyword"},
				"status_code": {"type": "integer"},
				"processing_time_ms": {"type": "integer"},
				"payment_id": {"type": "keyword"},
				"batch_num": {"type": "keyword"},
				"payer_account": {"type": "keyword"},
				"amount": {"type": "keyword"},
				"currency": {"type": "keyword"},
				"fields": {"type": "object"},
				"params": {"type": "object"},
				"error": {"type": "text"}
			}
		},
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 0
		}
	}`

	req := opensearchapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(mapping),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index creation error: %s", res.String())
	}

	return nil
}

// GetLogIndexName returns the index name for a log kind
func (c *Client) GetLogIndexName(kind string) string {
	return "perfectmoney-" + kind + "-logs"
}

// IsEnabled returns whether OpenSearch logging is enabled
func (c *Client) IsEnabled() bool {
	return c.config.EnableLogging
}
