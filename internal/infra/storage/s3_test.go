package storage

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spa-sentirse-bien/spa-server/internal/config"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestNewS3ArchiveDisabledWithoutBucket(t *testing.T) {
	assert.Nil(t, NewS3Archive(&config.Config{}))
	assert.NotNil(t, NewS3Archive(&config.Config{S3Bucket: "facturas", S3Region: "us-east-1", S3Endpoint: "http://localhost:9000"}))
}

func TestPut(t *testing.T) {
	fake := &fakePutter{}
	a := &S3Archive{client: fake, bucket: "spa"}

	require.NoError(t, a.Put(context.Background(), "facturas/x.pdf", []byte("%PDF"), "application/pdf"))
	assert.Equal(t, "spa", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "facturas/x.pdf", aws.ToString(fake.input.Key))
	assert.Equal(t, "application/pdf", aws.ToString(fake.input.ContentType))
	assert.Equal(t, []byte("%PDF"), fake.body)
}
