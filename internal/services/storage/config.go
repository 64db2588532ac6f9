// File: internal/services/storage/config.go
package storage

import "errors"

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("storage endpoint is required")
	}
	if c.Bucket == "" {
		return errors.New("storage bucket is required")
	}
	return nil
}
