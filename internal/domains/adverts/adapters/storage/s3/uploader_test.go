package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
	"github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestUploader_PutsObjectAndReportsLocation(t *testing.T) {
	client := &fakeS3{}
	uploader := NewUploaderWithClient(client, "petsetu-dev", "ap-south-1")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	body, err := uploader.Upload(context.Background(), "ignored", domain.MediaFile{Name: "Dog.PNG", Data: png})
	require.NoError(t, err)

	key := aws.ToString(client.input.Key)
	require.True(t, strings.HasPrefix(key, "posts/"))
	require.True(t, strings.HasSuffix(key, ".png"))
	require.Equal(t, "petsetu-dev", aws.ToString(client.input.Bucket))
	require.Equal(t, "image/png", aws.ToString(client.input.ContentType))
	require.Equal(t, png, client.body)

	require.Equal(t, key, body["fileName"])
	require.Equal(t, "https://petsetu-dev.s3.ap-south-1.amazonaws.com/"+key, body["Location"])
	id, ok := domain.ExtractMediaIdentifier(body)
	require.True(t, ok)
	require.Equal(t, body["Location"], id)
}

func TestUploader_WrapsFailures(t *testing.T) {
	uploader := NewUploaderWithClient(&fakeS3{err: errors.New("access denied")}, "b", "")
	_, err := uploader.Upload(context.Background(), "", domain.MediaFile{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("x")})
	require.ErrorIs(t, err, ports.ErrUpstream)

	uploader = NewUploaderWithClient(&fakeS3{err: context.DeadlineExceeded}, "b", "")
	_, err = uploader.Upload(context.Background(), "", domain.MediaFile{Name: "a.jpg"})
	require.ErrorIs(t, err, ports.ErrUpstreamTimeout)
}

func TestNewUploader_RequiresBucket(t *testing.T) {
	_, err := NewUploader(context.Background(), Config{})
	require.Error(t, err)
}
