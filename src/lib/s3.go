package lib

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var s3Client *s3.Client

func GetS3Client() *s3.Client {
	if s3Client != nil {
		return s3Client
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	s3Client = s3.NewFromConfig(cfg)
	return s3Client
}

// NewS3Client Replace s3 instance with custom client implementation
func NewS3Client(c *s3.Client) *s3.Client {
	s3Client = c
	return s3Client
}

// S3UploadPhoto streams a gallery image into the photos bucket and
// returns its public URL.
func S3UploadPhoto(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	bucket := os.Getenv("S3_PHOTOS_BUCKET")
	client := GetS3Client()
	if client == nil {
		return "", fmt.Errorf("s3 client unavailable")
	}
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	region := os.Getenv("AWS_REGION")
	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
	return url, nil
}

// S3DeletePhoto removes an uploaded image, used when the DB insert for a
// new photo fails after the upload already happened.
func S3DeletePhoto(ctx context.Context, key string) error {
	bucket := os.Getenv("S3_PHOTOS_BUCKET")
	client := GetS3Client()
	if client == nil {
		return fmt.Errorf("s3 client unavailable")
	}
	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}
