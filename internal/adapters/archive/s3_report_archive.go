package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"route-order-service/internal/domain"
	"route-order-service/internal/platform/obs"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectStore is the subset of *minio.Client used by the archive.
type objectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(
		ctx context.Context,
		bucketName, objectName string,
		reader io.Reader,
		objectSize int64,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
}

// S3ReportArchive stores the rendered text report of every plan in an
// S3-compatible bucket.
type S3ReportArchive struct {
	store  objectStore
	bucket string
}

type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
}

func NewS3ReportArchive(ctx context.Context, opts S3Options) (*S3ReportArchive, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, errors.New("s3 archive: endpoint, access key and secret key are required")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 archive: create client: %w", err)
	}

	a := &S3ReportArchive{store: client, bucket: opts.Bucket}
	if err := a.ensureBucket(ctx, opts.Region); err != nil {
		return nil, err
	}

	log.Printf("s3 archive ready endpoint=%s bucket=%s", opts.Endpoint, opts.Bucket)
	return a, nil
}

func (a *S3ReportArchive) ensureBucket(ctx context.Context, region string) error {
	if a.bucket == "" {
		return errors.New("s3 archive: bucket is empty")
	}

	exists, err := a.store.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("s3 archive: check bucket %q: %w", a.bucket, err)
	}
	if exists {
		return nil
	}

	if err := a.store.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("s3 archive: create bucket %q: %w", a.bucket, err)
	}
	return nil
}

// ObjectKey returns reports/<yyyy>/<mm>/<plan id>.txt, falling back to the
// creation timestamp for plans that were never persisted.
func ObjectKey(plan *domain.TourPlan) string {
	ts := plan.CreatedAt.UTC()
	name := fmt.Sprintf("%d", plan.PlanID)
	if plan.PlanID == 0 {
		name = ts.Format("20060102T150405.000000000Z")
	}
	return fmt.Sprintf("reports/%04d/%02d/%s.txt", ts.Year(), int(ts.Month()), name)
}

func (a *S3ReportArchive) Publish(ctx context.Context, plan *domain.TourPlan, report string) (err error) {
	defer obs.Time(ctx, "s3.ArchiveReport")(&err)

	if plan == nil {
		return errors.New("s3 archive: plan is nil")
	}

	key := ObjectKey(plan)
	_, err = a.store.PutObject(
		ctx,
		a.bucket,
		key,
		strings.NewReader(report),
		int64(len(report)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"},
	)
	if err != nil {
		return fmt.Errorf("s3 archive: put %q: %w", key, err)
	}

	return nil
}
