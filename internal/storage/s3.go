package storage

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	config "github.com/thirdweb-dev/blob-indexer/configs"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
)

type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Mirror copies blobs to {prefix}{shard}/{content_id} in a bucket, mirroring the local layout.
type S3Mirror struct {
	client s3PutAPI
	bucket string
	prefix string
}

func NewS3Mirror(cfg *config.S3Config) (*S3Mirror, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Override with explicit credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     cfg.AccessKeyID,
				SecretAccessKey: cfg.SecretAccessKey,
			}, nil
		})
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// custom endpoints are usually minio or localstack
			o.UsePathStyle = true
		}
	})

	log.Info().Str("bucket", cfg.Bucket).Str("prefix", cfg.Prefix).Msg("Mirroring blobs to S3")
	return newS3MirrorWithClient(s3Client, cfg.Bucket, cfg.Prefix), nil
}

func newS3MirrorWithClient(client s3PutAPI, bucket, prefix string) *S3Mirror {
	return &S3Mirror{client: client, bucket: bucket, prefix: prefix}
}

func (m *S3Mirror) objectKey(id string) string {
	return m.prefix + common.Shard(id) + "/" + id
}

func (m *S3Mirror) Put(ctx context.Context, record common.BlobRecord) error {
	id, err := common.NormalizeContentID(record.ContentID)
	if err != nil {
		return err
	}

	key := m.objectKey(id)
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(record.Payload),
		ContentType: aws.String("application/octet-stream"),
		Metadata: map[string]string{
			"height":   strconv.FormatUint(record.Height, 10),
			"tx-index": strconv.Itoa(record.Index),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: s3 put %s/%s: %v", common.ErrIO, m.bucket, key, err)
	}
	return nil
}
