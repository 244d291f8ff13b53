package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	// Public origin of the frontend; checkout redirects point back at it.
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:3000"`

	DatabasePath string `envconfig:"DATABASE_PATH" default:"data/artview.db"`

	// Replicate settings
	ReplicateAPIToken  string `envconfig:"REPLICATE_API_TOKEN"`
	ReplicateBaseURL   string `envconfig:"REPLICATE_BASE_URL" default:"https://api.replicate.com"`
	ProviderTimeoutSec int    `envconfig:"PROVIDER_TIMEOUT_SEC" default:"300"`

	// Stripe settings
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY"`

	// Optional S3-compatible sink for generated images. When S3Bucket is
	// empty, provider byte streams are returned inline as data URIs.
	S3URL           string `envconfig:"S3_URL"`
	S3Bucket        string `envconfig:"S3_BUCKET"`
	S3Region        string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey     string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey     string `envconfig:"S3_SECRET_KEY"`
	S3PublicBaseURL string `envconfig:"S3_PUBLIC_BASE_URL"`

	// Hard ceiling for draining provider byte streams, in MB.
	MaxStreamMB int `envconfig:"MAX_STREAM_MB" default:"32"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
