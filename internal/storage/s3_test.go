package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/oto-servis/internal/config"
)

func TestNewS3StoreWithoutBucket(t *testing.T) {
	_, err := NewS3Store(config.S3Config{})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com",
		publicBaseURL(config.S3Config{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"}))
	assert.Equal(t, "http://minio:9000/photos",
		publicBaseURL(config.S3Config{Bucket: "photos", Endpoint: "http://minio:9000"}))
	assert.Equal(t, "https://photos.s3.eu-central-1.amazonaws.com",
		publicBaseURL(config.S3Config{Bucket: "photos", Region: "eu-central-1"}))

	store, err := NewS3Store(config.S3Config{
		Bucket:          "photos",
		Region:          "eu-central-1",
		Endpoint:        "http://minio:9000",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "photos", store.bucket)
}
