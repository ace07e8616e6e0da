package evidence

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the configuration required to connect to an
// S3-compatible bucket.
type S3Config struct {
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store writes evidence files to an S3-compatible bucket.
type S3Store struct {
	cfg      S3Config
	client   *s3.Client
	uploader *manager.Uploader
}

// NewS3Store initializes the S3 client using a custom configuration
// that supports S3-compatible endpoints (MinIO, R2).
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	sdkCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: load sdk config: %v", ErrStoreFailed, err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		cfg:      cfg,
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// Put uploads the file to the bucket. The returned reference is the
// object key prefixed with "s3:" so callers can tell the backends apart.
func (s *S3Store) Put(ctx context.Context, key string, contentType string, r io.Reader) (string, error) {
	limited := io.LimitReader(r, MaxEvidenceSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	if len(data) > MaxEvidenceSize {
		return "", ErrTooLarge
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &s.cfg.Bucket,
		Key:         &key,
		ContentType: &contentType,
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	return "s3:" + key, nil
}
