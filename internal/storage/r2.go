package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"sociopedia/internal/config"
)

const pictureCacheControl = "public, max-age=86400"

// putObjectAPI is the slice of the S3 client R2Storage needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Storage stores uploads in a Cloudflare R2 bucket through its
// S3-compatible API. Objects are keyed by the original filename.
type R2Storage struct {
	client    putObjectAPI
	bucket    string
	publicURL string
}

// NewR2Storage constructs an S3-compatible client for Cloudflare R2.
func NewR2Storage(ctx context.Context, cfg *config.Config) (*R2Storage, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" || cfg.R2PublicURL == "" {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return newR2Storage(client, cfg.R2BucketName, cfg.R2PublicURL), nil
}

func newR2Storage(client putObjectAPI, bucket, publicURL string) *R2Storage {
	return &R2Storage{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// PublicURL is where a stored name can be fetched from.
func (s *R2Storage) PublicURL(name string) string {
	return s.publicURL + "/" + name
}

// Save uploads the picture and returns its public URL. Nothing under
// /assets serves R2 objects, so the URL is what clients store and fetch.
func (s *R2Storage) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	key, err := cleanName(name)
	if err != nil {
		return "", err
	}

	// The request body is already capped, so buffering gives the SDK a
	// seekable body for signing.
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(http.DetectContentType(data)),
		CacheControl: aws.String(pictureCacheControl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to r2: %w", err)
	}

	url := s.PublicURL(key)
	log.Printf("[R2Storage] Stored %s", url)
	return url, nil
}
