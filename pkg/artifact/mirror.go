package artifact

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MirrorConfig configures the optional S3-compatible artifact mirror.
type MirrorConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Bucket is the target bucket name.
	Bucket string `mapstructure:"bucket" yaml:"bucket"`

	// Region is the AWS region (optional, uses SDK default if empty).
	Region string `mapstructure:"region" yaml:"region"`

	// Endpoint is the S3 endpoint URL (optional, for S3-compatible services).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// KeyPrefix is prepended to all artifact keys. Should end with "/" if
	// non-empty.
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`

	// ForcePathStyle forces path-style addressing (required for MinIO and
	// Localstack).
	ForcePathStyle bool `mapstructure:"force_path_style" yaml:"force_path_style"`
}

// Mirror replicates artifact blobs to an S3-compatible bucket.
type Mirror struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// NewMirror builds a mirror from config, creating an S3 client via the AWS
// SDK's default credential chain.
func NewMirror(ctx context.Context, config MirrorConfig) (*Mirror, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("mirror bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if config.Region != "" {
		opts = append(opts, awsconfig.WithRegion(config.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if config.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
		})
	}
	if config.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &Mirror{
		client:    s3.NewFromConfig(awsCfg, s3Opts...),
		bucket:    config.Bucket,
		keyPrefix: config.KeyPrefix,
	}, nil
}

// Upload replicates one artifact blob. Callers treat failures as
// non-fatal; the local vault remains the artifact of record.
func (m *Mirror) Upload(ctx context.Context, name string, data []byte) error {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(m.keyPrefix + name),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}
