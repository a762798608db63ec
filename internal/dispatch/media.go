package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
)

// MediaStore uploads attachment bytes and returns a public URL.
type MediaStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type S3Media struct {
	client    *s3.S3
	bucket    string
	bucketURL string
}

func NewS3Media(cfg config.S3Config) (*S3Media, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.ServiceURL),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}

	bucketURL := strings.TrimRight(cfg.BucketURL, "/")
	if bucketURL == "" {
		bucketURL = fmt.Sprintf("%s/%s", strings.TrimRight(cfg.ServiceURL, "/"), cfg.BucketName)
	}
	return &S3Media{client: s3.New(sess), bucket: cfg.BucketName, bucketURL: bucketURL}, nil
}

func (m *S3Media) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s", m.bucketURL, key), nil
}
