package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var assetClient *s3.Client
var assetBucket string
var cdnBaseURL string

// InitAssetStore wires the S3-compatible bucket that holds reward and avatar
// artwork. Works against R2/MinIO/S3 — endpoint comes from env.
func InitAssetStore() error {
	endpoint := os.Getenv("ASSET_STORE_ENDPOINT")
	accessKeyID := os.Getenv("ASSET_STORE_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("ASSET_STORE_ACCESS_KEY_SECRET")
	assetBucket = os.Getenv("ASSET_STORE_BUCKET")
	cdnBaseURL = os.Getenv("CDN_BASE_URL")
	if cdnBaseURL == "" {
		cdnBaseURL = endpoint
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint}, nil
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load asset store config: %w", err)
	}

	assetClient = s3.NewFromConfig(cfg)
	return nil
}

// AssetKey builds a stable, URL-safe object key: <prefix>/<slug>-<short id><ext>
// e.g., "rewards/coffee-voucher-1a2b3c4d.png"
func AssetKey(prefix, name, filename string) string {
	ext := filepath.Ext(filename)
	short := uuid.NewString()[:8]
	return fmt.Sprintf("%s/%s-%s%s", prefix, slug.Make(name), short, ext)
}

// UploadAsset uploads a multipart file and returns the public CDN URL
func UploadAsset(fileHeader *multipart.FileHeader, key string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	_, err = assetClient.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(assetBucket),
		Key:         aws.String(key),
		Body:        buf,
		ContentType: aws.String(fileHeader.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}

	return fmt.Sprintf("%s/%s", cdnBaseURL, key), nil
}
