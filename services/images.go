package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/blog-platform/errs"
)

// ImageEncoder turns an uploaded image into the string stored in a post's
// ImageData: a data URI or a URL.
type ImageEncoder interface {
	Encode(ctx context.Context, data []byte, contentType string) (string, error)
}

// InlineImageEncoder embeds the image in the post as a base64 data URI.
type InlineImageEncoder struct{}

func (InlineImageEncoder) Encode(_ context.Context, data []byte, contentType string) (string, error) {
	return DataURI(data, contentType), nil
}

// DataURI builds a base64 data URI, sniffing the type when none is given.
func DataURI(data []byte, contentType string) string {
	return fmt.Sprintf("data:%s;base64,%s", imageContentType(data, contentType), base64.StdEncoding.EncodeToString(data))
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageEncoder uploads images to a bucket and stores the object URL.
type S3ImageEncoder struct {
	client objectPutter
	bucket string
	region string
}

func NewS3ImageEncoder(client *s3.Client, bucket, region string) (*S3ImageEncoder, error) {
	if bucket == "" {
		return nil, errs.NewConfigError("IMAGE_BUCKET", nil)
	}
	return &S3ImageEncoder{client: client, bucket: bucket, region: region}, nil
}

func (e *S3ImageEncoder) Encode(ctx context.Context, data []byte, contentType string) (string, error) {
	contentType = imageContentType(data, contentType)
	key := "blog-images/" + uuid.NewString() + extensionFor(contentType)

	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errs.NewImageUploadError(key, err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", e.bucket, e.region, key), nil
}

func imageContentType(data []byte, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(data)
}

func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
