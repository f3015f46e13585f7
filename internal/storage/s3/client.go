package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"agency-service/internal/config"
)

const (
	emptyAWSSessionToken       = ""
	errFailedCreateSessionFmt  = "failed to create AWS session: %w"
	errFailedPutArtifactFmt    = "failed to store artifact: %w"
	errFailedDeleteArtifactFmt = "failed to delete artifact: %w"
)

// Client writes accepted upload artifacts to a single bucket. Put and
// Delete are synchronous with no partial-write visibility: an object
// either exists in full or not at all.
type Client struct {
	svc    *s3.S3
	bucket string
}

func NewClient(cfg *config.AWSConfig) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
	})

	if err != nil {
		return nil, fmt.Errorf(errFailedCreateSessionFmt, err)
	}

	return &Client{
		svc:    s3.New(sess),
		bucket: cfg.ArtifactBucket,
	}, nil
}

func (c *Client) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(body),
	})

	if err != nil {
		return fmt.Errorf(errFailedPutArtifactFmt, err)
	}

	return nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		return fmt.Errorf(errFailedDeleteArtifactFmt, err)
	}

	return nil
}
