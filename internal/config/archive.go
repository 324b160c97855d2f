package config

import "os"

// ArchiveConfig points at the S3-compatible bucket (Cloudflare R2 in
// production) that receives the nightly report PDFs.
type ArchiveConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// Enabled is true when a bucket and credentials are present.
func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != "" && a.AccessKey != "" && a.SecretKey != ""
}

func (a *ArchiveConfig) applyEnv() {
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		a.Endpoint = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		a.Region = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		a.Bucket = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		a.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		a.SecretKey = v
	}
}
