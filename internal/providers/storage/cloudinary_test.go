package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCloudinary struct {
	mock.Mock
	uploads []uploader.UploadParams
}

func (m *mockCloudinary) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	if r, ok := file.(io.Reader); ok {
		_, _ = io.ReadAll(r)
	}
	m.uploads = append(m.uploads, params)
	args := m.Called(params.ResourceType, params.PublicID, params.Folder)
	res, _ := args.Get(0).(*uploader.UploadResult)
	return res, args.Error(1)
}

func (m *mockCloudinary) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	args := m.Called(params.PublicID, params.ResourceType)
	res, _ := args.Get(0).(*uploader.DestroyResult)
	return res, args.Error(1)
}

var pdfObject = Object{
	Key:        "REG-20261018-AB12C",
	BookingID:  "42",
	EventTitle: "Science Fair",
	Bytes:      []byte("%PDF-1.3"),
}

func TestCloudinaryFirstResourceTypeAccepted(t *testing.T) {
	client := &mockCloudinary{}
	client.On("Upload", "image", "REG-20261018-AB12C-42", "booking-confirmations").
		Return(&uploader.UploadResult{SecureURL: "https://res.cloudinary.com/x/image/upload/booking-confirmations/REG-20261018-AB12C-42.pdf", PublicID: "booking-confirmations/REG-20261018-AB12C-42"}, nil)

	store := NewCloudinary(client, "/booking-confirmations/", nil, nil)
	artifact, err := store.Put(context.Background(), pdfObject)
	require.NoError(t, err)
	assert.Equal(t, "image", artifact.ResourceType)
	assert.Equal(t, "cloudinary", artifact.Strategy)
	client.AssertNumberOfCalls(t, "Upload", 1)
}

func TestCloudinaryNeverOverwritesOtherBookings(t *testing.T) {
	client := &mockCloudinary{}
	client.On("Upload", "image", mock.Anything, mock.Anything).
		Return(&uploader.UploadResult{SecureURL: "https://res.cloudinary.com/x/image/upload/a.pdf", PublicID: "a"}, nil)

	store := NewCloudinary(client, "booking-confirmations", []string{"image"}, nil)
	first := pdfObject
	second := pdfObject
	second.BookingID = "43"

	_, err := store.Put(context.Background(), first)
	require.NoError(t, err)
	_, err = store.Put(context.Background(), second)
	require.NoError(t, err)

	require.Len(t, client.uploads, 2)
	assert.NotEqual(t, client.uploads[0].PublicID, client.uploads[1].PublicID)
	for _, params := range client.uploads {
		require.NotNil(t, params.Overwrite)
		assert.False(t, *params.Overwrite)
	}
}

func TestCloudinaryFallsBackToSecondResourceType(t *testing.T) {
	client := &mockCloudinary{}
	client.On("Upload", "image", mock.Anything, mock.Anything).
		Return(&uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}, nil)
	client.On("Upload", "raw", mock.Anything, mock.Anything).
		Return(&uploader.UploadResult{SecureURL: "https://res.cloudinary.com/x/raw/upload/REG.pdf", PublicID: "booking-confirmations/REG"}, nil)

	store := NewCloudinary(client, "booking-confirmations", []string{"image", "raw"}, nil)
	artifact, err := store.Put(context.Background(), pdfObject)
	require.NoError(t, err)
	assert.Equal(t, "raw", artifact.ResourceType)
	assert.Equal(t, "https://res.cloudinary.com/x/raw/upload/REG.pdf", artifact.Locator)
}

func TestCloudinaryAllResourceTypesRejected(t *testing.T) {
	client := &mockCloudinary{}
	client.On("Upload", "image", mock.Anything, mock.Anything).Return(nil, errors.New("401 unauthorized"))
	client.On("Upload", "raw", mock.Anything, mock.Anything).Return(&uploader.UploadResult{}, nil)

	store := NewCloudinary(client, "booking-confirmations", []string{"image", "raw"}, nil)
	_, err := store.Put(context.Background(), pdfObject)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401 unauthorized")
	assert.Contains(t, err.Error(), "no url")
}

func TestCloudinaryRemove(t *testing.T) {
	client := &mockCloudinary{}
	client.On("Destroy", "booking-confirmations/REG", "raw").Return(&uploader.DestroyResult{Result: "ok"}, nil)

	store := NewCloudinary(client, "booking-confirmations", nil, nil)
	require.NoError(t, store.Remove(context.Background(), &Artifact{RemoteID: "booking-confirmations/REG", ResourceType: "raw"}))
	require.NoError(t, store.Remove(context.Background(), &Artifact{}))
	client.AssertNumberOfCalls(t, "Destroy", 1)
}
