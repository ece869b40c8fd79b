package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"portfolio-site/internal/baas"
)

// S3Config is the object store for uploaded files. Logical buckets become key
// prefixes inside Bucket.
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
	UsePathStyle    bool
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func newS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

type fileStore struct {
	b       *Backend
	session baas.Session
}

func objectKey(bucket, id string) string {
	return bucket + "/" + id
}

func (f *fileStore) Create(ctx context.Context, bucket, id string, u baas.Upload) (baas.FileInfo, error) {
	if f.session.Anonymous() {
		return baas.FileInfo{}, baas.ErrUnauthorized
	}
	if _, err := f.b.Accounts().Current(ctx, f.session); err != nil {
		return baas.FileInfo{}, err
	}
	if id == "" {
		id = baas.UniqueID()
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(f.b.s3.Bucket),
		Key:    aws.String(objectKey(bucket, id)),
		Body:   u.Body,
	}
	if u.ContentType != "" {
		in.ContentType = aws.String(u.ContentType)
	}
	if u.Size > 0 {
		in.ContentLength = aws.Int64(u.Size)
	}
	if _, err := f.b.objects.PutObject(ctx, in); err != nil {
		return baas.FileInfo{}, fmt.Errorf("%w: put object: %w", baas.ErrUnavailable, err)
	}
	return baas.FileInfo{ID: id, Bucket: bucket, Name: u.Name, Size: u.Size}, nil
}

// ViewURL points at the public object. Without a public base URL the S3
// endpoint is used path-style.
func (f *fileStore) ViewURL(bucket, fileID string) string {
	base := f.b.s3.PublicBaseURL
	if base == "" {
		base = strings.TrimRight(f.b.s3.Endpoint, "/") + "/" + f.b.s3.Bucket
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(bucket) + "/" + url.PathEscape(fileID)
}
