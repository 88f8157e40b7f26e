// Package mirror copies finished project trees to S3-compatible object
// storage. Mirroring is best effort: the local tree stays the source of
// truth and callers treat upload failures as log-worthy, not fatal.
package mirror

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"siteforge/internal/cache"
)

// presignExpiry is how long presigned download links stay valid; presignTTL
// caps how long one is reused, so a served link always has headroom left.
const (
	presignExpiry = time.Hour
	presignTTL    = 45 * time.Minute
)

type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Mirror struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
	urls       *cache.LRUTTL[string, string]
}

func New(cfg Config) (*Mirror, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("mirror endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("mirror access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("mirror bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init mirror client: %w", err)
	}

	return &Mirror{
		client:     client,
		bucketName: bucket,
		region:     region,
		urls:       cache.NewLRUTTL[string, string](256, presignTTL),
	}, nil
}

// Enabled reports whether a mirror is configured. A nil *Mirror is a valid
// disabled mirror, so call sites stay unconditional.
func (m *Mirror) Enabled() bool {
	return m != nil && m.client != nil
}

func (m *Mirror) ensureBucket(ctx context.Context) error {
	if !m.Enabled() {
		return fmt.Errorf("mirror is not configured")
	}
	m.initOnce.Do(func() {
		exists, err := m.client.BucketExists(ctx, m.bucketName)
		if err != nil {
			m.initErr = err
			return
		}
		if exists {
			return
		}
		m.initErr = m.client.MakeBucket(ctx, m.bucketName, minio.MakeBucketOptions{Region: m.region})
	})
	return m.initErr
}

// UploadTree walks dir and uploads every file under the project prefix. It
// returns the number of objects written.
func (m *Mirror) UploadTree(ctx context.Context, projectID, dir string) (int, error) {
	if !m.Enabled() {
		return 0, fmt.Errorf("mirror is not configured")
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return 0, fmt.Errorf("project id is required")
	}
	if err := m.ensureBucket(ctx); err != nil {
		return 0, fmt.Errorf("ensure bucket: %w", err)
	}

	count := 0
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}
		ct := mime.TypeByExtension(filepath.Ext(rel))
		if ct == "" {
			ct = "application/octet-stream"
		}
		_, err = m.client.PutObject(ctx, m.bucketName, objectKey(projectID, filepath.ToSlash(rel)), f, info.Size(), minio.PutObjectOptions{
			ContentType: ct,
		})
		if err == nil {
			count++
		}
		return err
	})
	return count, err
}

// UploadZip streams a zip snapshot produced by write into object storage.
func (m *Mirror) UploadZip(ctx context.Context, projectID string, write func(io.Writer) error) error {
	if !m.Enabled() {
		return fmt.Errorf("mirror is not configured")
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return fmt.Errorf("project id is required")
	}
	if err := m.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(write(pw))
	}()
	_, err := m.client.PutObject(ctx, m.bucketName, zipKey(projectID), pr, -1, minio.PutObjectOptions{
		ContentType: "application/zip",
	})
	return err
}

// PresignedZipURL returns a time-limited download link for the mirrored zip
// snapshot. Links are reused until presignTTL; a re-uploaded snapshot does
// not invalidate them, since a presigned GET always serves the current
// object.
func (m *Mirror) PresignedZipURL(ctx context.Context, projectID string) (string, error) {
	if !m.Enabled() {
		return "", fmt.Errorf("mirror is not configured")
	}
	projectID = strings.TrimSpace(projectID)
	if u, ok := m.urls.Get(projectID); ok {
		return u, nil
	}
	u, err := m.client.PresignedGetObject(ctx, m.bucketName, zipKey(projectID), presignExpiry, nil)
	if err != nil {
		return "", err
	}
	m.urls.Set(projectID, u.String())
	return u.String(), nil
}

func objectKey(projectID, path string) string {
	return "projects/" + projectID + "/" + strings.TrimLeft(path, "/")
}

func zipKey(projectID string) string {
	return "archives/" + projectID + ".zip"
}
