package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type (
	AwsS3Config struct {
		Bucket    string
		Region    string
		AccessKey string
		SecretKey string
		// Endpoint targets an S3-compatible server (MinIO, localstack).
		Endpoint string
	}

	awsS3 struct {
		client *s3.Client
		cfg    AwsS3Config
	}
)

func NewAwsS3(ctx context.Context, cfg AwsS3Config) (Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &awsS3{client: client, cfg: cfg}, nil
}

func (a *awsS3) UploadBytes(ctx context.Context, name string, data []byte, folder string, allowTypes ...string) (string, error) {
	key, contentType, err := objectKey(name, data, folder, allowTypes)
	if err != nil {
		return "", err
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

func (a *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.cfg.Bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *awsS3) baseURL() string {
	if a.cfg.Endpoint != "" {
		return strings.TrimRight(a.cfg.Endpoint, "/") + "/" + a.cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", a.cfg.Bucket, a.cfg.Region)
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return a.baseURL() + "/" + objectKey
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	prefix := a.baseURL() + "/"
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}
