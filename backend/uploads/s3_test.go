package uploads

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	input   *s3.PutObjectInput
	options s3.PresignOptions
	err     error
}

func (f *fakePresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	for _, fn := range optFns {
		fn(&f.options)
	}
	return &v4.PresignedHTTPRequest{
		URL:    "https://videos.s3.amazonaws.com/" + aws.ToString(params.Key) + "?X-Amz-Signature=abc",
		Method: "PUT",
	}, nil
}

var videoKey = regexp.MustCompile(`^videos/[0-9a-f-]{36}/intro\.mp4$`)

func TestUploadURL(t *testing.T) {
	presigner := &fakePresigner{}
	uploader, err := NewS3VideoUploader(presigner, "videos", "https://cdn.example.com/", 0)
	require.NoError(t, err)

	urls, err := uploader.UploadURL(context.Background(), "intro.mp4", "video/mp4")
	require.NoError(t, err)

	key := aws.ToString(presigner.input.Key)
	assert.Regexp(t, videoKey, key)
	assert.Equal(t, "videos", aws.ToString(presigner.input.Bucket))
	assert.Equal(t, "video/mp4", aws.ToString(presigner.input.ContentType))
	assert.Equal(t, 60*time.Second, presigner.options.Expires)
	assert.Contains(t, urls.UploadURL, key)
	assert.Equal(t, "https://cdn.example.com/"+key, urls.VideoURL)
}

func TestUploadURLKeysAreUnique(t *testing.T) {
	uploader, err := NewS3VideoUploader(&fakePresigner{}, "videos", "https://cdn.example.com", time.Minute)
	require.NoError(t, err)

	first, err := uploader.UploadURL(context.Background(), "intro.mp4", "video/mp4")
	require.NoError(t, err)
	second, err := uploader.UploadURL(context.Background(), "intro.mp4", "video/mp4")
	require.NoError(t, err)

	assert.NotEqual(t, first.VideoURL, second.VideoURL)
}

func TestUploadURLErrors(t *testing.T) {
	_, err := NewS3VideoUploader(&fakePresigner{}, "", "https://cdn.example.com", 0)
	assert.Error(t, err)

	uploader, err := NewS3VideoUploader(&fakePresigner{err: errors.New("no credentials")}, "videos", "https://cdn.example.com", 0)
	require.NoError(t, err)
	_, err = uploader.UploadURL(context.Background(), "intro.mp4", "video/mp4")
	assert.Error(t, err)
}
