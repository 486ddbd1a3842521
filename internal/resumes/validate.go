package resumes

import (
	"fmt"
	"strings"

	"jobassist-backend/internal/shared/apperr"
	"jobassist-backend/internal/shared/util"
)

// Validate checks an upload before any side effect and returns its file type.
func Validate(userID, fileName string, size int64) (FileType, error) {
	const op = "resumes.Validate"
	if strings.TrimSpace(userID) == "" {
		return "", apperr.Validation(op, "user id is required")
	}
	if strings.ContainsAny(userID, "/\\") {
		return "", apperr.Validation(op, "user id must not contain path separators")
	}
	if strings.TrimSpace(fileName) == "" {
		return "", apperr.Validation(op, "file name is required")
	}

	var ft FileType
	switch ext := util.FileExtension(fileName); ext {
	case string(FileTypePDF):
		ft = FileTypePDF
	case string(FileTypeDOCX):
		ft = FileTypeDOCX
	default:
		return "", apperr.Validation(op, fmt.Sprintf("unsupported file type %q: upload a PDF or DOCX file", ext))
	}

	if size <= 0 {
		return "", apperr.Validation(op, "file is empty")
	}
	if size > MaxFileSize {
		return "", apperr.Validation(op, "file exceeds the 5 MiB limit")
	}
	return ft, nil
}
