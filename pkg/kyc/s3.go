package kyc

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client is the slice of the S3 API the uploader needs. Tests substitute
// a stub.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config carries the document-store settings read from the environment.
type S3Config struct {
	Bucket      string `env:"KYC_S3_BUCKET,required"`
	Region      string `env:"KYC_S3_REGION,required"`
	AccessKeyID string `env:"KYC_S3_ACCESS_KEY_ID"`
	SecretKey   string `env:"KYC_S3_SECRET_KEY"`
	Endpoint    string `env:"KYC_S3_ENDPOINT"`   // S3-compatible services
	BaseURL     string `env:"KYC_S3_BASE_URL"`   // public URL base
	PathStyle   bool   `env:"KYC_S3_PATH_STYLE"` // MinIO and friends
}

// S3Uploader stores documents in an S3 bucket.
type S3Uploader struct {
	client  S3Client
	bucket  string
	baseURL string
}

// S3UploaderOption configures an S3Uploader.
type S3UploaderOption func(*S3Uploader)

// WithS3Client injects a pre-built client, bypassing AWS config loading.
func WithS3Client(client S3Client) S3UploaderOption {
	return func(u *S3Uploader) {
		u.client = client
	}
}

// NewS3Uploader creates an uploader for the configured bucket.
func NewS3Uploader(ctx context.Context, cfg S3Config, opts ...S3UploaderOption) (*S3Uploader, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrMissingBucket
	}

	u := &S3Uploader{
		bucket:  cfg.Bucket,
		baseURL: resolveBaseURL(cfg),
	}
	for _, opt := range opts {
		opt(u)
	}

	if u.client == nil {
		loadOpts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}

		u.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return u, nil
}

// Upload puts the document into the bucket and returns its URL.
func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return u.baseURL + key, nil
}

func resolveBaseURL(cfg S3Config) string {
	base := cfg.BaseURL
	if base == "" {
		if cfg.Endpoint != "" {
			base = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}
