package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfig 测试默认配置
func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	// 默认不依赖外部数据库
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

// TestLoadFromFile 测试从配置文件加载
func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
env: production
server:
  port: 9090
database:
  driver: postgres
  host: db.internal
  dbname: officeflow
rate_limit:
  enabled: true
  rps: 50
  burst: 100
log:
  level: info
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, float64(50), cfg.RateLimit.RPS)
	assert.Equal(t, "info", cfg.Log.Level)
	// 未覆盖的字段保留默认值
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.True(t, IsProduction(cfg))
}

// TestLoadMissingFile 测试配置文件不存在时报错
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

// TestWatcherReload 测试配置热加载
func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: development\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	w := NewWatcher(cfg, path, nil)
	require.NoError(t, w.Start())
	defer w.Stop()

	assert.Equal(t, "development", w.GetConfig().Env)
}
