package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	configs "go_stub_server/internal/infra/config"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3FixtureSource reads fixtures stored as <prefix><name>.json objects.
type s3FixtureSource struct {
	client *s3.Client
	bucket string
	prefix string
	config *configs.FixtureConfig
}

var _ FixtureStoreIface = (*s3FixtureSource)(nil)

// NewS3Client loads the default AWS credential chain, overriding region and
// endpoint when configured.
func NewS3Client(ctx context.Context, c *configs.S3Config) (*s3.Client, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if c.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(c.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = c.UsePathStyle
	}), nil
}

func NewS3FixtureSource(client *s3.Client, config *configs.FixtureConfig) FixtureStoreIface {
	return &s3FixtureSource{
		client: client,
		bucket: config.S3.Bucket,
		prefix: config.S3.Prefix,
		config: config,
	}
}

func (s *s3FixtureSource) key(name string) string {
	return s.prefix + fixtureFileName(name)
}

func (s *s3FixtureSource) ReadFixture(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := retry.Do(
		func() error {
			result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    aws.String(s.key(name)),
			})
			if err != nil {
				return err
			}
			defer result.Body.Close()

			data, err = io.ReadAll(result.Body)
			return err
		},
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool { return !isNoSuchKey(err) }),
		retry.LastErrorOnly(true),
		retry.Attempts(uint(s.config.RetryCount)),
		retry.Delay(s.config.RetryDelay),
	)
	if isNoSuchKey(err) {
		return nil, fmt.Errorf("%w: %s", ErrFixtureNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture %s from S3: %w", name, err)
	}
	return data, nil
}

func (s *s3FixtureSource) ListFixtures(ctx context.Context) ([]string, error) {
	var names []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list fixtures: %w", err)
		}
		for _, obj := range page.Contents {
			key := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if strings.HasSuffix(key, fixtureExt) {
				names = append(names, fixtureName(key))
			}
		}
	}
	return names, nil
}

func (s *s3FixtureSource) SaveFixture(ctx context.Context, name string, data []byte) error {
	return retry.Do(
		func() error {
			_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
				Bucket:      aws.String(s.bucket),
				Key:         aws.String(s.key(name)),
				Body:        bytes.NewReader(data),
				ContentType: aws.String("application/json"),
			})
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(s.config.RetryCount)),
		retry.Delay(s.config.RetryDelay),
	)
}

func isNoSuchKey(err error) bool {
	var nsk *types.NoSuchKey
	return errors.As(err, &nsk)
}
