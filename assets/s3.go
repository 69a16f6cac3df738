package assets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aaronch12Ch/portafolio-sp/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PresignResolver signs short-lived GET URLs for a private video bucket.
type PresignResolver struct {
	client presigner
	bucket string
	expire time.Duration
}

// NewPresignResolver loads AWS credentials from the default chain.
func NewPresignResolver(ctx context.Context, settings config.Settings) (*PresignResolver, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(settings.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewPresignResolverFromConfig(cfg, settings.S3VideoBucket, settings.PresignExpire), nil
}

func NewPresignResolverFromConfig(cfg aws.Config, bucket string, expire time.Duration) *PresignResolver {
	if expire <= 0 {
		expire = 15 * time.Minute
	}
	return &PresignResolver{
		client: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		bucket: bucket,
		expire: expire,
	}
}

func (r *PresignResolver) VideoURL(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil
	}
	req, err := r.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(r.expire))
	if err != nil {
		return "", fmt.Errorf("presign video %s: %w", key, err)
	}
	return req.URL, nil
}
