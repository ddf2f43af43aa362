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
		"-a", ":9999",
		"-d", "postgres://x",
		"-s", "flagsecret",
		"-t", "90",
		"-b", "avatars",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":9999", cfg.EndpointAddr)
	assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
	assert.Equal(t, "flagsecret", cfg.SecretKey)
	assert.Equal(t, 90*time.Minute, cfg.TokenValidityDuration)
	assert.Equal(t, "avatars", cfg.S3Bucket)
	// untouched fields keep their defaults
	assert.Equal(t, "admin", cfg.S3RootUser)
}

func Test_parseFlags_KeepsDefaultsWithoutFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenValidityDuration)
}
