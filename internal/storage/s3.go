package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tyrecheck/tyrecheck-go/internal/config"
)

// objectPutter is the part of *s3.Client the store needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes images to an S3 compatible bucket.
type S3Store struct {
	client objectPutter
	bucket string
}

// NewS3Store builds an S3 client from cfg. Static keys are used when both
// are set, otherwise the default AWS credential chain applies. A custom
// endpoint and path-style addressing support MinIO style deployments.
func NewS3Store(ctx context.Context, cfg config.Upload) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return newS3Store(client, cfg.S3Bucket), nil
}

func newS3Store(client objectPutter, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

func (s *S3Store) Save(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error) {
	if err := checkSegment(folder); err != nil {
		return "", err
	}
	if err := checkSegment(filename); err != nil {
		return "", err
	}

	// Buffer so the SDK can sign a seekable payload.
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}

	key := path.Join(folder, filename)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	return "s3://" + s.bucket + "/" + key, nil
}
