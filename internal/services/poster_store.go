package services

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"cinematch-backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// PosterStore copies TMDb posters into storage we control and returns the URL
// the client should use instead.
type PosterStore interface {
	Mirror(ctx context.Context, posterPath, sourceURL string) (string, error)
}

type MinIOPosterStore struct {
	client     *minio.Client
	bucket     string
	endpoint   string
	useSSL     bool
	publicURL  string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewMinIOPosterStore(cfg *config.MinIOConfig, logger *logrus.Logger) (*MinIOPosterStore, error) {
	endpoint := cfg.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"bucket":   cfg.BucketName,
		"useSSL":   cfg.UseSSL,
	}).Info("MinIO poster store initialized")

	store := &MinIOPosterStore{
		client:    minioClient,
		bucket:    cfg.BucketName,
		endpoint:  endpoint,
		useSSL:    cfg.UseSSL,
		publicURL: cfg.PublicURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.ensureBucket(ctx, cfg.Region); err != nil {
		logger.WithError(err).Warn("Failed to configure poster bucket, but continuing...")
	}

	return store, nil
}

func (s *MinIOPosterStore) ensureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.WithField("bucket", s.bucket).Info("Bucket created successfully")
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/posters/*"]
			}
		]
	}`, s.bucket)

	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

// Mirror uploads the poster once; later calls for the same poster path only stat the object.
func (s *MinIOPosterStore) Mirror(ctx context.Context, posterPath, sourceURL string) (string, error) {
	objectName := posterObjectName(posterPath)
	if objectName == "" {
		return "", fmt.Errorf("invalid poster path %q", posterPath)
	}

	_, err := s.client.StatObject(ctx, s.bucket, objectName, minio.StatObjectOptions{})
	if err == nil {
		return s.objectURL(objectName), nil
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return "", fmt.Errorf("failed to stat poster: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create poster request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download poster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("poster download returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectName, resp.Body, resp.ContentLength, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload poster: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"posterPath": posterPath,
		"objectName": objectName,
	}).Info("Poster mirrored")

	return s.objectURL(objectName), nil
}

func (s *MinIOPosterStore) objectURL(objectName string) string {
	return objectURL(s.publicURL, s.endpoint, s.bucket, s.useSSL, objectName)
}

func objectURL(publicURL, endpoint, bucket string, useSSL bool, objectName string) string {
	if publicURL != "" {
		return strings.TrimRight(publicURL, "/") + "/" + objectName
	}

	protocol := "http://"
	if useSSL {
		protocol = "https://"
	}
	return fmt.Sprintf("%s%s/%s/%s", protocol, endpoint, bucket, objectName)
}

// posterObjectName maps "/abc.jpg" to "posters/abc.jpg".
func posterObjectName(posterPath string) string {
	name := path.Base(strings.TrimSpace(posterPath))
	if name == "." || name == "/" || name == "" {
		return ""
	}
	return "posters/" + name
}
