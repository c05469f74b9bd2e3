package config

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDecodeSections(t *testing.T) {
	raw := map[string]any{}
	doc := `{
		"app": {"AppPort": "9000", "JWTSecret": "s3cret", "AllowedOrigins": ["https://a.example", "https://b.example"], "IndexCacheSeconds": 5},
		"gin": {"Mode": "debug", "LogPath": "logs/gin.log"},
		"database": {"Driver": "sqlite", "DatabaseURI": "file:test.db"},
		"redis": {"RedisHost": "cache", "RedisPort": 6380},
		"log": {"Level": "warn", "Compress": true},
		"media": {"Root": "/srv/media", "MaxUploadMB": 3}
	}`
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	var c AppConfig
	decodeSections(raw, &c)

	want := AppConfig{
		AppPort:           "9000",
		JWTSecret:         "s3cret",
		AllowedOrigins:    []string{"https://a.example", "https://b.example"},
		IndexCacheSeconds: 5,
		GinMode:           "debug",
		GinPath:           "logs/gin.log",
		DBDriver:          "sqlite",
		DatabaseURI:       "file:test.db",
		RedisHost:         "cache",
		RedisPort:         6380,
		LogLevel:          "warn",
		LogCompress:       true,
		MediaRoot:         "/srv/media",
		MaxUploadMB:       3,
	}
	if !reflect.DeepEqual(c, want) {
		t.Fatalf("decoded %+v\nwant    %+v", c, want)
	}
}

func TestDefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "7000")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://x.example , ,https://y.example")
	t.Setenv("INDEX_CACHE_SECONDS", "30")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	if c.AppPort != "7000" || c.IndexCacheSeconds != 30 {
		t.Fatalf("env overrides not applied: %+v", c)
	}
	if c.RedisHost != "localhost" || c.RedisPort != 6379 {
		t.Fatalf("redis port should default with host, got %s:%d", c.RedisHost, c.RedisPort)
	}
	if !reflect.DeepEqual(c.AllowedOrigins, []string{"https://x.example", "https://y.example"}) {
		t.Fatalf("unexpected origins %v", c.AllowedOrigins)
	}
	if c.MediaRoot != "media" || c.MaxUploadMB != 10 || c.TokenTTLHours != 72 || c.DBDriver != "mysql" {
		t.Fatalf("defaults not applied: %+v", c)
	}
}

func TestOpenDatabaseRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenDatabase(AppConfig{DBDriver: "oracle"}); err == nil {
		t.Fatalf("expected an error for an unsupported driver")
	}
}
