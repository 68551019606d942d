package config

import "os"

// StorageConfig defines settings for the S3-compatible bucket that stores
// user avatars. Endpoint is optional and only set when pointing at a
// non-AWS deployment such as MinIO; PublicURL is the prefix avatars are
// served from.
type StorageConfig struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

// LoadStorageConfig reads environment variables to build a StorageConfig.
// Defaults are used when variables are not set.
func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Region:    getenv("S3_REGION", "us-east-1"),
		Bucket:    getenv("S3_BUCKET", "contacts-avatars"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		PublicURL: getenv("S3_PUBLIC_URL", "https://contacts-avatars.s3.amazonaws.com"),
	}
}
