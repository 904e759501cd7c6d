package s3

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// Configured reports whether object storage has been set up through the environment.
func Configured() bool {
	return os.Getenv("OSS_ENDPOINT") != ""
}

func BuildBucketFromEnv() (*oss.Bucket, error) {
	endpoint := os.ExpandEnv(os.Getenv("OSS_ENDPOINT"))
	if endpoint == "" {
		endpoint = "dummy"
	}
	accessKey := os.Getenv("OSS_ACCESS_KEY")
	secretKey := os.Getenv("OSS_SECRET_KEY")
	bucket := os.Getenv("OSS_BUCKET")
	if bucket == "" {
		bucket = "printdesk"
	}
	return BuildBucket(endpoint, accessKey, secretKey, bucket)
}

func BuildBucket(endpoint, accesskey, secretKey, bucketName string) (*oss.Bucket, error) {
	// endpoint http://oss-cn-hangzhou.aliyuncs.com
	cli, err := oss.New(endpoint, accesskey, secretKey, oss.HTTPClient(nil))
	if err != nil {
		return nil, err
	}

	bucket, err := cli.Bucket(bucketName)
	if err != nil {
		return nil, err
	}
	return bucket, nil
}

type ObjectPutter interface {
	PutObject(objectKey string, reader io.Reader, options ...oss.Option) error
}

// BucketUploader stores documents into an OSS bucket.
type BucketUploader struct {
	Bucket ObjectPutter
}

func (u *BucketUploader) Upload(ctx context.Context, key string, content []byte, contentType string) error {
	var childSpan opentracing.Span
	if ctx != nil {
		if parentSpan := opentracing.SpanFromContext(ctx); parentSpan != nil {
			childSpan = parentSpan.Tracer().StartSpan("put-object", opentracing.ChildOf(parentSpan.Context()))
			childSpan.SetTag("object-key", key)
			defer childSpan.Finish()
		}
	}

	err := u.Bucket.PutObject(key, bytes.NewReader(content), oss.ContentType(contentType))
	if childSpan != nil {
		ext.Error.Set(childSpan, err != nil)
	}
	return err
}
