package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	config "github.com/avelini/course_academy/configs"
)

// R2Service wraps the S3-compatible object store used for course media.
// Browsers upload directly with presigned PUT URLs; the public read URL is
// derived from the object key.
type R2Service struct {
	Client    *s3.Client
	Presigner *s3.PresignClient
	Bucket    string
	PublicURL string
}

var Store *R2Service

const presignExpiry = 15 * time.Minute

func InitStorage() {
	accountEndpoint := config.Config("R2_ENDPOINT")
	accessKey := config.Config("R2_ACCESS_KEY_ID")
	secretKey := config.Config("R2_SECRET_ACCESS_KEY")
	bucket := config.Config("R2_BUCKET")
	publicURL := config.Config("R2_PUBLIC_URL")

	if accountEndpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		log.Println("⚠️ Object storage not configured. Uploads are disabled.")
		Store = nil
		return
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		log.Fatalf("🔥 Failed to configure object storage: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(accountEndpoint)
	})

	Store = &R2Service{
		Client:    client,
		Presigner: s3.NewPresignClient(client),
		Bucket:    bucket,
		PublicURL: strings.TrimRight(publicURL, "/"),
	}
	log.Println("✅ Object storage initialized successfully.")
}

// PresignUpload returns a presigned PUT URL the browser can upload to.
func (s *R2Service) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	req, err := s.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(po *s3.PresignOptions) {
		po.Expires = presignExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for %s: %w", key, err)
	}
	return req.URL, nil
}

// UploadObject writes server-generated files (e.g. certificates) directly.
func (s *R2Service) UploadObject(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.ObjectURL(key), nil
}

// ObjectURL derives the public read URL for an object key.
func (s *R2Service) ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s", s.PublicURL, strings.TrimLeft(key, "/"))
}
