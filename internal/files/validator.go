// Package files validates attached-file metadata before any review or
// suggestion write. Any rejection is a hard stop; there is no partial
// acceptance of a file list.
package files

import (
	"fmt"
	"path/filepath"
	"strings"

	"feedback-hub/internal/models"
	"feedback-hub/internal/utils"
)

// MaxTotalSize caps the summed file data across one upload at 8 MiB.
const MaxTotalSize = 8 * 1024 * 1024

// allowedExtensions maps lowercase extensions to their MIME type.
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Validate checks a list of attached files and returns a sanitized copy with
// derived FileType/FileExtension and corrected FileSize, or a specific
// rejection reason. A nil or empty input is valid and returns nil.
func Validate(files []models.AttachedFile) ([]models.AttachedFile, error) {
	if len(files) == 0 {
		return nil, nil
	}

	sanitized := make([]models.AttachedFile, 0, len(files))
	var total int64

	for i, f := range files {
		if f.FileName == "" {
			return nil, utils.NewAppError(utils.ErrFileRejected,
				fmt.Sprintf("file %d has no name", i+1), nil)
		}
		if len(f.FileData) == 0 {
			return nil, utils.NewAppError(utils.ErrFileRejected,
				fmt.Sprintf("file %q has no data", f.FileName), nil)
		}

		ext := strings.ToLower(filepath.Ext(f.FileName))
		mimeType, ok := allowedExtensions[ext]
		if !ok {
			return nil, utils.NewAppError(utils.ErrFileRejected,
				fmt.Sprintf("file extension %q is not allowed", ext), nil)
		}

		actualSize := int64(len(f.FileData))
		if f.FileSize != 0 && f.FileSize != actualSize {
			return nil, utils.NewAppError(utils.ErrFileRejected,
				fmt.Sprintf("file %q declares %d bytes but carries %d", f.FileName, f.FileSize, actualSize), nil)
		}

		total += actualSize
		if total > MaxTotalSize {
			return nil, utils.NewAppError(utils.ErrFileRejected,
				fmt.Sprintf("total upload size exceeds %d bytes", MaxTotalSize), nil)
		}

		sanitized = append(sanitized, models.AttachedFile{
			FileName:      f.FileName,
			FileData:      f.FileData,
			FileSize:      actualSize,
			FileType:      mimeType,
			FileExtension: ext,
		})
	}

	return sanitized, nil
}
