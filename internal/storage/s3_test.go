package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	if in.Body != nil {
		b, _ := io.ReadAll(in.Body)
		f.body = string(b)
	}
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Store_Save(t *testing.T) {
	fake := &fakePutter{}
	store := newS3Store(fake, "tyre-images")

	loc, err := store.Save(context.Background(), "CLM-1", "rear.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)

	assert.Equal(t, "s3://tyre-images/CLM-1/rear.png", loc)
	assert.Equal(t, "tyre-images", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "CLM-1/rear.png", aws.ToString(fake.input.Key))
	assert.Equal(t, "image/png", aws.ToString(fake.input.ContentType))
	assert.Equal(t, "png", fake.body)
}

func TestS3Store_SaveError(t *testing.T) {
	store := newS3Store(&fakePutter{err: errors.New("access denied")}, "b")

	_, err := store.Save(context.Background(), "f", "a.jpg", "image/jpeg", strings.NewReader("x"))
	assert.ErrorContains(t, err, "access denied")
}

func TestS3Store_RejectsTraversal(t *testing.T) {
	fake := &fakePutter{}
	store := newS3Store(fake, "b")

	_, err := store.Save(context.Background(), "f", "../../etc/passwd", "image/jpeg", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.Nil(t, fake.input)
}
