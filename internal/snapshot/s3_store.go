package snapshot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3API is the subset of *s3.Client used by the S3 store.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Store implements Store on an S3 bucket.
type s3Store struct {
	client s3API
	bucket string
	logger zerolog.Logger
}

// NewS3Store creates a store backed by bucket, using the default AWS
// credential chain.
func NewS3Store(ctx context.Context, bucket, region string, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "snapshot-s3-store").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 snapshot store initialised")

	return newS3Store(s3.NewFromConfig(cfg), bucket, logger), nil
}

func newS3Store(client s3API, bucket string, logger zerolog.Logger) *s3Store {
	return &s3Store{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Save uploads the snapshot under key.
func (s *s3Store) Save(ctx context.Context, key string, snap *Snapshot) error {
	var buf bytes.Buffer
	if err := encode(&buf, snap); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(s.bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(buf.Bytes()),
		ContentType:     aws.String("application/json"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", key).
		Int("bytes", buf.Len()).
		Msg("snapshot uploaded to S3")

	return nil
}

// Load downloads the snapshot stored under key.
func (s *s3Store) Load(ctx context.Context, key string) (*Snapshot, error) {
	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", key).
		Msg("loading snapshot from S3")

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}
	defer result.Body.Close()

	snap, err := decode(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object %s: %w", key, err)
	}
	return snap, nil
}

// fallbackStore tries S3 first and falls back to the local file system.
type fallbackStore struct {
	s3Store   Store
	fileStore Store
	s3Prefix  string
	s3Enabled bool
	logger    zerolog.Logger
}

// NewFallbackStore creates a store that prefers S3 and keeps a local copy.
// Load tries S3 first, then the file store. Save always writes the local
// copy; an S3 upload failure is logged and does not fail the save. If
// s3Store is nil only the file store is used.
func NewFallbackStore(s3Store, fileStore Store, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Store {
	return &fallbackStore{
		s3Store:   s3Store,
		fileStore: fileStore,
		s3Prefix:  s3Prefix,
		s3Enabled: s3Enabled,
		logger:    logger.With().Str("component", "snapshot-fallback-store").Logger(),
	}
}

func (s *fallbackStore) useS3() bool {
	return s.s3Enabled && s.s3Store != nil
}

func (s *fallbackStore) Save(ctx context.Context, key string, snap *Snapshot) error {
	if err := s.fileStore.Save(ctx, key, snap); err != nil {
		return err
	}

	if !s.useS3() {
		return nil
	}

	s3Key := s.s3Prefix + key
	if err := s.s3Store.Save(ctx, s3Key, snap); err != nil {
		s.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to upload snapshot to S3, local copy kept")
	}
	return nil
}

func (s *fallbackStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	if s.useS3() {
		s3Key := s.s3Prefix + key

		snap, err := s.s3Store.Load(ctx, s3Key)
		if err == nil {
			return snap, nil
		}

		s.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to load from S3, falling back to local file system")
	} else {
		s.logger.Debug().
			Bool("s3_enabled", s.s3Enabled).
			Bool("has_s3_store", s.s3Store != nil).
			Msg("S3 disabled or not configured, using local file system")
	}

	return s.fileStore.Load(ctx, key)
}
