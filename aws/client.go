// Package aws defines functions used to interact with the AWS API. Any
// S3 compatible host works, Cloudflare R2 included, when media.endpoint is set.
package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
)

type S3Client struct {
	C      *s3.Client
	Bucket *string
}

// S3Options describes where the media bucket lives
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string // empty for AWS itself
	AccessKeyID     string
	SecretAccessKey string
}

// OptionsFromConfig reads the media.* keys
func OptionsFromConfig() S3Options {
	return S3Options{
		Bucket:          viper.GetString("media.bucket"),
		Region:          viper.GetString("media.region"),
		Endpoint:        viper.GetString("media.endpoint"),
		AccessKeyID:     viper.GetString("media.access_key_id"),
		SecretAccessKey: viper.GetString("media.secret_access_key"),
	}
}

func NewS3(ctx context.Context, opts S3Options) (*S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(opts.Bucket)

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.Region = opts.Region
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", opts.Bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &S3Client{
		C:      client,
		Bucket: bucket,
	}, nil
}
