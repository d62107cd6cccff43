package checks

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"bling-sync/core/cache"
	"bling-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var archiveEntries = []cache.Entry{
	{OriginalID: "1", Kind: "pessoa", Payload: `{"id":1}`},
	{OriginalID: "2", Kind: "pessoa", Payload: `{"id":2}`},
}

func TestCheckArchive(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("BucketExists", ctx, "payloads").Return(true, nil)
	client.On("GetObject", ctx, "payloads", "responses/pessoa/1.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(`{"id":1}`)), nil)
	client.On("GetObject", ctx, "payloads", "responses/pessoa/2.json", mock.Anything).
		Return(nil, errors.New("The specified key does not exist."))

	report, err := CheckArchive(ctx, client, "payloads", archiveEntries)
	require.NoError(t, err)
	assert.Equal(t, "payloads", report.Bucket)
	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, []string{"responses/pessoa/2.json"}, report.Missing)
}

func TestCheckArchive_MissingBucket(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("BucketExists", ctx, "payloads").Return(false, nil)

	report, err := CheckArchive(ctx, client, "payloads", archiveEntries)
	assert.Error(t, err)
	assert.Nil(t, report)
	client.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFixArchive(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("PutObject", ctx, "payloads", "responses/pessoa/2.json", mock.Anything, int64(8), mock.AnythingOfType("minio.PutObjectOptions")).
		Return(minio.UploadInfo{}, nil)

	fixed, err := FixArchive(ctx, client, "payloads", zap.NewNop(), archiveEntries, []string{"responses/pessoa/2.json"})
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)
	client.AssertNumberOfCalls(t, "PutObject", 1)
}

func TestFixArchive_StopsOnError(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("PutObject", ctx, "payloads", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("access denied"))

	fixed, err := FixArchive(ctx, client, "payloads", zap.NewNop(), archiveEntries,
		[]string{"responses/pessoa/1.json", "responses/pessoa/2.json"})
	assert.Error(t, err)
	assert.Equal(t, 0, fixed)
	client.AssertNumberOfCalls(t, "PutObject", 1)
}
