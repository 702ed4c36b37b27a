package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: diagnostics
    user: app
  elasticsearch:
    addresses:
      - http://localhost:9200
  redis:
    address: localhost:6379
workers:
  classify-diagnostic:
    enabled: true
  create-lead-record:
    enabled: false
    timeout: 5000
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "diagnostic-workers", cfg.App.Name)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "http://localhost:9200", cfg.Database.Elasticsearch.URL)
	assert.Equal(t, "leads", cfg.Database.Elasticsearch.LeadIndex)
	assert.Equal(t, 3000, cfg.APIs.Classifier.Timeout)
	assert.Equal(t, 2, cfg.APIs.Classifier.MaxRetries)
	assert.Equal(t, 3600, cfg.APIs.Classifier.CacheTTL)
	assert.Equal(t, "configs/activity-registry.json", cfg.Registry.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Logging.Format)

	classify := cfg.Workers["classify-diagnostic"]
	assert.True(t, classify.Enabled)
	assert.Equal(t, 5, classify.MaxJobsActive)
	assert.Equal(t, 30000, classify.Timeout)
	assert.Equal(t, 3, classify.MaxRetries)

	lead := cfg.Workers["create-lead-record"]
	assert.False(t, lead.Enabled)
	assert.Equal(t, 5000, lead.Timeout)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_CLASSIFIER_URL", "http://classifier.internal")

	body := minimalYAML + `
apis:
  classifier:
    base_url: ${TEST_CLASSIFIER_URL}
`
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)

	assert.Equal(t, "http://classifier.internal", cfg.APIs.Classifier.BaseURL)
}

func TestLoadFromFile_SecretFallbackFromEnv(t *testing.T) {
	t.Setenv("ZOHO_CRM_OAUTH_TOKEN", "token-123")

	cfg, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "token-123", cfg.Integrations.Zoho.OAuthToken)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Camunda.BrokerAddress = "localhost:26500"
		cfg.Database.Postgres = PostgresConfig{Host: "h", Database: "d", User: "u"}
		cfg.Database.Elasticsearch.Addresses = []string{"http://es:9200"}
		cfg.Database.Redis.Address = "redis:6379"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing broker", mutate: func(c *Config) { c.Camunda.BrokerAddress = "" }, wantErr: "camunda.broker_address"},
		{name: "missing postgres host", mutate: func(c *Config) { c.Database.Postgres.Host = "" }, wantErr: "database.postgres.host"},
		{name: "missing postgres user", mutate: func(c *Config) { c.Database.Postgres.User = "" }, wantErr: "database.postgres.user"},
		{name: "missing elasticsearch", mutate: func(c *Config) { c.Database.Elasticsearch.Addresses = nil }, wantErr: "elasticsearch"},
		{name: "elasticsearch url only", mutate: func(c *Config) {
			c.Database.Elasticsearch.Addresses = nil
			c.Database.Elasticsearch.URL = "http://es:9200"
		}},
		{name: "missing redis", mutate: func(c *Config) { c.Database.Redis.Address = "" }, wantErr: "database.redis.address"},
		{name: "ses without sender", mutate: func(c *Config) { c.Integrations.AWS.SES.Enabled = true }, wantErr: "from_email"},
		{name: "negative classifier retries", mutate: func(c *Config) { c.APIs.Classifier.MaxRetries = -1 }, wantErr: "max_retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWorkerHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"index-lead": {Enabled: false, Timeout: 1000},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "index-lead"))
	assert.True(t, IsWorkerEnabled(cfg, "crm-lead-sync"))

	assert.Equal(t, 1000, GetWorkerConfig(cfg, "index-lead").Timeout)
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "crm-lead-sync").Timeout)

	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "leads", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=leads sslmode=disable", p.GetDSN())
}
