package media

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3StoreConfig describes the S3-compatible media host.
type S3StoreConfig struct {
	Bucket        string
	Region        string
	Endpoint      string // optional, for S3-compatible providers
	PublicBaseURL string // optional, prefix for returned URLs
}

// S3Store implements BlobStore against an S3-compatible service. Objects are
// keyed by a random ID plus the original extension, so the object ID can be
// recovered from the public URL.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	prober   DurationProber
	logger   *slog.Logger
	bucket   string
	baseURL  string
}

// NewS3Store configures an uploader targeting the provided object store.
// prober may be nil, in which case video durations are reported as unknown.
func NewS3Store(ctx context.Context, cfg S3StoreConfig, prober DurationProber, logger *slog.Logger) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 store: bucket is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3Store{
		client:   client,
		uploader: uploader,
		prober:   prober,
		logger:   logger,
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload stores the local file under a fresh object ID and returns its public
// location. For video uploads the duration is probed; probe failures are not
// fatal because metadata can live without it.
func (s *S3Store) Upload(ctx context.Context, localPath string, kind Kind) (*UploadResult, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("s3 store: open %s: %w", localPath, err)
	}
	defer f.Close()

	ext := filepath.Ext(localPath)
	key := uuid.NewString() + ext

	contentType := mime.TypeByExtension(ext)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
		ACL:    s3types.ObjectCannedACLPublicRead,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return nil, fmt.Errorf("s3 store: upload %s: %w", key, err)
	}

	result := &UploadResult{URL: s.publicURL(key)}

	if kind == KindVideo && s.prober != nil {
		duration, err := s.prober.ProbeDuration(ctx, localPath)
		if err != nil {
			s.logger.Warn("duration probe failed", slog.String("path", localPath), slog.String("error", err.Error()))
		} else {
			result.Duration = duration
		}
	}

	return result, nil
}

// Delete removes every object whose key starts with objectID. Keys are
// "<id><ext>", so deleting by ID prefix mirrors public-id style deletion.
func (s *S3Store) Delete(ctx context.Context, objectID string) error {
	if strings.TrimSpace(objectID) == "" {
		return fmt.Errorf("s3 store: empty object id")
	}

	list, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(objectID),
	})
	if err != nil {
		return fmt.Errorf("s3 store: list %s: %w", objectID, err)
	}
	if len(list.Contents) == 0 {
		return fmt.Errorf("s3 store: no objects match %s", objectID)
	}

	for _, obj := range list.Contents {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    obj.Key,
		})
		if err != nil {
			return fmt.Errorf("s3 store: delete %s: %w", aws.ToString(obj.Key), err)
		}
	}
	return nil
}

func (s *S3Store) publicURL(key string) string {
	if s.baseURL == "" {
		return key
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key)
}
