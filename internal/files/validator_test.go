package files

import (
	"bytes"
	"testing"

	"feedback-hub/internal/models"
	"feedback-hub/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDerivesTypeAndCorrectsSize(t *testing.T) {
	input := []models.AttachedFile{
		{FileName: "photo.JPG", FileData: []byte("imagedata"), FileSize: 0},
		{FileName: "notes.txt", FileData: []byte("hello"), FileSize: 5},
	}

	sanitized, err := Validate(input)
	require.NoError(t, err)
	require.Len(t, sanitized, 2)

	assert.Equal(t, ".jpg", sanitized[0].FileExtension)
	assert.Equal(t, "image/jpeg", sanitized[0].FileType)
	assert.Equal(t, int64(9), sanitized[0].FileSize)

	assert.Equal(t, "text/plain", sanitized[1].FileType)
	assert.Equal(t, int64(5), sanitized[1].FileSize)
}

func TestValidateEmptyListIsValid(t *testing.T) {
	sanitized, err := Validate(nil)
	assert.NoError(t, err)
	assert.Nil(t, sanitized)
}

func TestValidateRejectsDisallowedExtension(t *testing.T) {
	_, err := Validate([]models.AttachedFile{
		{FileName: "malware.exe", FileData: []byte("MZ")},
	})
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrFileRejected))
}

func TestValidateRejectsSizeMismatch(t *testing.T) {
	_, err := Validate([]models.AttachedFile{
		{FileName: "doc.pdf", FileData: []byte("12345"), FileSize: 99},
	})
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrFileRejected))
}

func TestValidateRejectsOversizedTotal(t *testing.T) {
	half := bytes.Repeat([]byte("a"), MaxTotalSize/2)
	_, err := Validate([]models.AttachedFile{
		{FileName: "a.png", FileData: half},
		{FileName: "b.png", FileData: half},
		{FileName: "c.png", FileData: []byte("overflow")},
	})
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrFileRejected))
}

func TestValidateRejectsMalformedEntries(t *testing.T) {
	_, err := Validate([]models.AttachedFile{{FileName: "", FileData: []byte("x")}})
	assert.True(t, utils.IsErrorCode(err, utils.ErrFileRejected))

	_, err = Validate([]models.AttachedFile{{FileName: "empty.txt"}})
	assert.True(t, utils.IsErrorCode(err, utils.ErrFileRejected))
}
