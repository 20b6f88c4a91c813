package uploads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"learnhub/backend/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const DefaultExpiry = 60 * time.Second

type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var _ Presigner = (*s3.PresignClient)(nil)

type VideoUploader interface {
	// UploadURL issues a short-lived PUT URL for a new video and the URL the
	// video will be served from once uploaded.
	UploadURL(ctx context.Context, fileName, fileType string) (*models.UploadURLResponse, error)
}

type s3VideoUploader struct {
	presigner Presigner
	bucket    string
	cdnDomain string
	expiry    time.Duration
}

func NewS3VideoUploader(presigner Presigner, bucket, cdnDomain string, expiry time.Duration) (VideoUploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("missing env var S3_BUCKET_NAME")
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &s3VideoUploader{
		presigner: presigner,
		bucket:    bucket,
		cdnDomain: strings.TrimRight(cdnDomain, "/"),
		expiry:    expiry,
	}, nil
}

func (u *s3VideoUploader) UploadURL(ctx context.Context, fileName, fileType string) (*models.UploadURLResponse, error) {
	uploadID := uuid.NewString()
	key := fmt.Sprintf("videos/%s/%s", uploadID, fileName)

	req, err := u.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}, s3.WithPresignExpires(u.expiry))
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}

	return &models.UploadURLResponse{
		UploadURL: req.URL,
		VideoURL:  fmt.Sprintf("%s/%s", u.cdnDomain, key),
	}, nil
}
