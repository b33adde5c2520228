package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

var _ ports.MediaUploader = (*Uploader)(nil)

// KeyPrefix is the object key prefix for advert photos.
const KeyPrefix = "posts"

// Config selects the bucket and credentials. Empty keys fall back to the default
// AWS credential chain.
type Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// PutObjectAPI is the subset of the S3 client used by the uploader.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores advert photos directly in S3 and reports their public URL.
type Uploader struct {
	client PutObjectAPI
	bucket string
	region string
	newKey func(fileName string) string
}

// NewUploader loads the AWS configuration and builds an S3 client.
func NewUploader(ctx context.Context, cfg Config) (*Uploader, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3 bucket is required")
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewUploaderWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Region), nil
}

// NewUploaderWithClient wires an existing client.
func NewUploaderWithClient(client PutObjectAPI, bucket, region string) *Uploader {
	return &Uploader{client: client, bucket: bucket, region: region, newKey: objectKey}
}

// Upload puts the file under a random key. The token is unused; the bucket
// policy governs access.
func (u *Uploader) Upload(ctx context.Context, _ string, file domain.MediaFile) (map[string]any, error) {
	if u == nil || u.client == nil {
		return nil, errors.New("s3 uploader not configured")
	}
	key := u.newKey(file.Name)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(contentType(file)),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ports.ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("%w: failed to upload to S3: %w", ports.ErrUpstream, err)
	}
	return map[string]any{
		"Location": u.objectURL(key),
		"fileName": key,
	}, nil
}

func (u *Uploader) objectURL(key string) string {
	host := fmt.Sprintf("%s.s3.amazonaws.com", u.bucket)
	if u.region != "" {
		host = fmt.Sprintf("%s.s3.%s.amazonaws.com", u.bucket, u.region)
	}
	return (&url.URL{Scheme: "https", Host: host, Path: "/" + key}).String()
}

func objectKey(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s/%s%s", KeyPrefix, uuid.NewString(), ext)
}

func contentType(file domain.MediaFile) string {
	if kind, err := filetype.Match(file.Data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if file.ContentType != "" {
		return file.ContentType
	}
	return "application/octet-stream"
}
