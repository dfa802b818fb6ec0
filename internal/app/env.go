package app

import (
	"os"
	"strings"

	"github.com/vk/sitemeta/internal/config"
)

// Environment variables holding S3 publisher credentials. The MinIO root
// credentials are accepted as a fallback for local deployments.
const (
	envS3AccessKey = "SITEMETA_S3_ACCESS_KEY"
	envS3SecretKey = "SITEMETA_S3_SECRET_KEY"
)

// applyEnv fills publisher credentials from the environment.
func applyEnv(m *config.Model, getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, p := range m.Publishers {
		if p.S3 == nil {
			continue
		}
		if p.S3.AccessKey == "" {
			p.S3.AccessKey = firstNonEmpty(getenv(envS3AccessKey), getenv("MINIO_ROOT_USER"))
		}
		if p.S3.SecretKey == "" {
			p.S3.SecretKey = firstNonEmpty(getenv(envS3SecretKey), getenv("MINIO_ROOT_PASSWORD"))
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
