package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/faq-chatbot/internal/domain/schema"
)

// BucketSource reads the FAQ dataset from S3-compatible object storage,
// for deployments where the dataset is not publicly hosted.
type BucketSource struct {
	client *minio.Client
	bucket string
	object string
}

// NewBucketSource constructs the source.
func NewBucketSource(endpoint, accessKey, secretKey, region, bucket, object string) (*BucketSource, error) {
	cleanEndpoint := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	useSSL := !strings.HasPrefix(strings.ToLower(endpoint), "http://")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init bucket client: %w", err)
	}
	return &BucketSource{client: client, bucket: bucket, object: object}, nil
}

// Fetch implements schema.DatasetSource.
func (s *BucketSource) Fetch(ctx context.Context) ([]schema.QandA, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch dataset object: %w", err)
	}
	defer obj.Close()
	return decode(obj)
}

var _ schema.DatasetSource = (*BucketSource)(nil)
