// Package iostorage stores primary assets and renditions in
// S3-compatible buckets. Offline renditions can be written to a local
// directory through the same lifecycle.ObjectStore contract.
package iostorage

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"github.com/phingest/phingest/pkg/config"
	"github.com/phingest/phingest/pkg/lifecycle"
)

// Locator converts a storage key to the locator recorded in the catalog.
type Locator func(key string) string

// Bucket is one S3 bucket.
type Bucket struct {
	client  *s3.Client
	bucket  string
	locator Locator
}

var _ lifecycle.ObjectStore = (*Bucket)(nil)

// NewMain creates the bucket of primary assets. Its locators are
// "s3://{bucket}/{key}".
func NewMain(ctx context.Context, cfg *config.Config) (*Bucket, error) {
	return New(ctx, cfg.Storage, S3Locator(cfg.Storage.Bucket))
}

// NewCDN creates the bucket of renditions. Without separate_key the
// endpoint, region and credentials of the main storage are reused.
// Locators are "{public_url}/{key}".
func NewCDN(ctx context.Context, cfg *config.Config) (*Bucket, error) {
	sc := CDNSettings(cfg)
	loc := S3Locator(sc.Bucket)
	if cfg.CDN.PublicURL != "" {
		loc = URLLocator(cfg.CDN.PublicURL)
	}
	return New(ctx, sc, loc)
}

// CDNSettings returns the effective connection settings of the CDN
// bucket.
func CDNSettings(cfg *config.Config) config.StorageConfig {
	if cfg.CDN.SeparateKey {
		return cfg.CDN.StorageConfig
	}
	res := cfg.Storage
	res.Bucket = cfg.CDN.Bucket
	return res
}

// New creates a client of one bucket.
func New(
	ctx context.Context,
	sc config.StorageConfig,
	locator Locator,
) (*Bucket, error) {
	if sc.Bucket == "" || sc.AccessKeyID == "" || sc.SecretAccessKey == "" {
		return nil, StorageConfigError(sc.Bucket)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(sc.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				sc.AccessKeyID, sc.SecretAccessKey, "",
			),
		),
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, StorageConfigError(sc.Bucket)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if sc.Endpoint != "" {
			o.BaseEndpoint = aws.String(sc.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Bucket{client: client, bucket: sc.Bucket, locator: locator}, nil
}

// Put uploads data under key.
func (b *Bucket) Put(
	ctx context.Context,
	key string,
	data []byte,
	contentType string,
) (string, error) {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", UploadError(b.bucket, key, err)
	}

	slog.Debug("Uploaded object",
		"bucket", b.bucket,
		"key", key,
		"size", humanize.Bytes(uint64(len(data))),
	)
	return b.locator(key), nil
}

// Get downloads the object stored under key.
func (b *Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, DownloadError(b.bucket, key, err)
	}
	defer out.Body.Close()

	res, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, DownloadError(b.bucket, key, err)
	}
	return res, nil
}
