package shared

import (
	"encoding/json"
	"github.com/tailscale/hujson"
	"log"
	"os"
	"time"
)

const (
	configVarName  = "CONFIG"                // If set, will load config from this path and not from devConfigPath
	secretsVarName = "SECRETS"               // If set, will load secrets from this path and not from devSecretsPath
	devConfigPath  = "dev/config.dev.jsonc"  // Path to config in development environment
	devSecretsPath = "dev/secrets.dev.jsonc" // Path to secrets in development environment
)

const (
	DriverSqlite3  = "sqlite3"  // mattn/go-sqlite3 (cgo)
	DriverSqlite   = "sqlite"   // modernc.org/sqlite (pure Go)
	DriverPostgres = "postgres" // lib/pq
)

const (
	MatcherOrgLink   = "org-link"
	MatcherSubstring = "substring"
)

type Config struct {
	Secrets                 Secrets  `json:"-"`
	LogFile                 string   `json:"log_file"`
	LogLevel                string   `json:"log_level"`
	ServicePort             uint     `json:"service_port"`
	Host                    string   `json:"host"`
	DbDriver                string   `json:"db_driver"`
	DbDsn                   string   `json:"db_dsn"`
	Groups                  []string `json:"groups"`
	RelayListUrl            string   `json:"relay_list_url"`
	RegisterListUrl         string   `json:"register_list_url"`
	MentionMatcher          string   `json:"mention_matcher"`
	Schedule                Schedule `json:"schedule"`
	StaleFeedDays           int      `json:"stale_feed_days"`
	FetchTimeoutSec         int      `json:"fetch_timeout_sec"`
	MaxParallelFetches      int      `json:"max_parallel_fetches"`
	MaxFetchesPerHost       int      `json:"max_fetches_per_host"`
	HostDelayMs             int      `json:"host_delay_ms"`
	MaxReplyDepth           int      `json:"max_reply_depth"`
	ValidateDiscoveredFeeds bool     `json:"validate_discovered_feeds"`
	RssMaxItems             int      `json:"rss_max_items"`
}

// Schedule holds the cadence of each background job.
type Schedule struct {
	FeedScanSec        int `json:"feed_scan_sec"`
	NodeDiscoveryMin   int `json:"node_discovery_min"`
	FollowDiscoveryMin int `json:"follow_discovery_min"`
	StalePruneMin      int `json:"stale_prune_min"`
}

type Secrets struct {
	ApiKeys     []string `json:"api_keys"`
	MetricsAuth string   `json:"metrics_auth"`
}

func LoadConfig() *Config {

	// Where are our config and secrets files?
	cfgPath := os.Getenv(configVarName)
	if len(cfgPath) == 0 {
		cfgPath = devConfigPath
	}
	secretsPath := os.Getenv(secretsVarName)
	if len(secretsPath) == 0 {
		secretsPath = devSecretsPath
	}

	// Read config file
	var config Config
	mustDeserializeFile(cfgPath, &config)
	// Read secrets member from secrets file
	mustDeserializeFile(secretsPath, &config.Secrets)
	config.ApplyDefaults()
	return &config
}

// ApplyDefaults fills in zero-valued settings.
func (cfg *Config) ApplyDefaults() {
	if cfg.DbDriver == "" {
		cfg.DbDriver = DriverSqlite3
	}
	if cfg.MentionMatcher == "" {
		cfg.MentionMatcher = MatcherOrgLink
	}
	if cfg.Schedule.FeedScanSec <= 0 {
		cfg.Schedule.FeedScanSec = 60
	}
	if cfg.Schedule.NodeDiscoveryMin <= 0 {
		cfg.Schedule.NodeDiscoveryMin = 180
	}
	if cfg.Schedule.FollowDiscoveryMin <= 0 {
		cfg.Schedule.FollowDiscoveryMin = 24 * 60
	}
	if cfg.Schedule.StalePruneMin <= 0 {
		cfg.Schedule.StalePruneMin = 3 * 24 * 60
	}
	if cfg.StaleFeedDays <= 0 {
		cfg.StaleFeedDays = 3
	}
	if cfg.FetchTimeoutSec <= 0 {
		cfg.FetchTimeoutSec = 10
	}
	if cfg.MaxParallelFetches <= 0 {
		cfg.MaxParallelFetches = 8
	}
	if cfg.MaxFetchesPerHost <= 0 {
		cfg.MaxFetchesPerHost = 2
	}
	if cfg.HostDelayMs < 0 {
		cfg.HostDelayMs = 0
	}
	if cfg.MaxReplyDepth <= 0 {
		cfg.MaxReplyDepth = 100
	}
	if cfg.RssMaxItems <= 0 {
		cfg.RssMaxItems = 200
	}
}

func (cfg *Config) FetchTimeout() time.Duration {
	return time.Duration(cfg.FetchTimeoutSec) * time.Second
}

func (cfg *Config) StaleAfter() time.Duration {
	return time.Duration(cfg.StaleFeedDays) * 24 * time.Hour
}

func mustDeserializeFile[T any](fileName string, obj *T) {
	var err error
	var cfgJson []byte
	cfgJson, err = os.ReadFile(fileName)
	if err != nil {
		log.Fatal(err)
	}
	// JSONC => JSON
	cfgJson, err = standardizeJSON(cfgJson)
	if err != nil {
		log.Fatal(err)
	}
	// Parse
	if err := json.Unmarshal(cfgJson, obj); err != nil {
		log.Fatal(err)
	}
}

func standardizeJSON(b []byte) ([]byte, error) {
	ast, err := hujson.Parse(b)
	if err != nil {
		return b, err
	}
	ast.Standardize()
	return ast.Pack(), nil
}
