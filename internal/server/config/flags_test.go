package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags_Overrides(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin",
		"-a", ":9090",
		"-l", "https://files.example.com",
		"-d", "postgres://u:p@db:5432/files",
		"-s", "flag_secret",
		"-t", "24",
		"-u", "ak",
		"-p", "sk",
		"-b", "bkt",
		"-g", "eu-west-1",
		"-e", "http://minio:9000/",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "https://files.example.com", cfg.BaseURL)
	assert.Equal(t, "postgres://u:p@db:5432/files", cfg.DatabaseDSN)
	assert.Equal(t, "flag_secret", cfg.SecretKey)
	assert.Equal(t, 24*time.Hour, cfg.TokenValidityDuration)
	assert.Equal(t, "ak", cfg.S3AccessKeyID)
	assert.Equal(t, "sk", cfg.S3SecretAccessKey)
	assert.Equal(t, "bkt", cfg.S3Bucket)
	assert.Equal(t, "eu-west-1", cfg.S3Region)
	assert.Equal(t, "http://minio:9000/", cfg.S3Endpoint)
}

func Test_parseFlags_IgnoresForeignFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-a", ":9090", "-unknown", "x"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddr)
}
