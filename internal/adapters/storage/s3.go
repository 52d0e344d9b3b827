package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"eventpages/internal/domain"
)

// S3Config holds configuration for the S3-backed object store.
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL is the CDN or bucket website base the stored key is
	// appended to. Defaults to the virtual-hosted bucket URL.
	PublicBaseURL string
}

// StoreConfig holds configuration for creating an object store.
type StoreConfig struct {
	Provider string
	S3       S3Config
}

// NewObjectStorage creates an object store from config. Provider "s3" uses
// AWS S3; "noop" or unknown uses an in-memory no-op store.
func NewObjectStorage(config StoreConfig) (domain.ObjectStorage, error) {
	switch config.Provider {
	case "s3":
		awsCfg := aws.Config{
			Region: config.S3.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					config.S3.AccessKeyID,
					config.S3.SecretAccessKey,
					"",
				),
			),
		}
		base := config.S3.PublicBaseURL
		if base == "" {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", config.S3.Bucket, config.S3.Region)
		}
		return &s3Storage{
			client:        s3.NewFromConfig(awsCfg),
			bucket:        config.S3.Bucket,
			publicBaseURL: strings.TrimRight(base, "/"),
		}, nil
	case "noop":
		return &noopStorage{}, nil
	default:
		log.Printf("[STORAGE] Unknown storage provider %q, using noop", config.Provider)
		return &noopStorage{}, nil
	}
}

type s3Storage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func (s *s3Storage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.publicBaseURL + "/" + key, nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

type noopStorage struct{}

func (n *noopStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	log.Println("[STORAGE] Object would be stored (noop)", "key", key, "bytes", len(data))
	return "https://storage.invalid/" + key, nil
}

func (n *noopStorage) Delete(ctx context.Context, key string) error {
	log.Println("[STORAGE] Object would be deleted (noop)", "key", key)
	return nil
}
