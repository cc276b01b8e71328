package shared

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestStandardizeJSON(t *testing.T) {
	src := []byte(`{
  // comment
  "host": "relay.example", /* inline */
  "groups": ["Emacs",],
}`)
	res, err := standardizeJSON(src)
	require.NoError(t, err)
	assert.JSONEq(t, `{"host":"relay.example","groups":["Emacs"]}`, string(res))

	_, err = standardizeJSON([]byte(`{"host": `))
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{StaleFeedDays: 7, HostDelayMs: -5}
	cfg.ApplyDefaults()
	assert.Equal(t, DriverSqlite3, cfg.DbDriver)
	assert.Equal(t, MatcherOrgLink, cfg.MentionMatcher)
	assert.Equal(t, 60, cfg.Schedule.FeedScanSec)
	assert.Equal(t, 7*24*time.Hour, cfg.StaleAfter())
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 0, cfg.HostDelayMs)
}

func TestLoadDevConfig(t *testing.T) {
	t.Setenv(configVarName, "../"+devConfigPath)
	t.Setenv(secretsVarName, "../"+devSecretsPath)

	cfg := LoadConfig()
	assert.Equal(t, DriverSqlite, cfg.DbDriver)
	assert.Equal(t, uint(8080), cfg.ServicePort)
	assert.Equal(t, []string{"Emacs", "Org Social", "Programming"}, cfg.Groups)
	assert.Equal(t, 1440, cfg.Schedule.FollowDiscoveryMin)
	assert.Equal(t, []string{"dev-api-key"}, cfg.Secrets.ApiKeys)
	assert.NotEmpty(t, cfg.Secrets.MetricsAuth)
}
