package resumes

import "time"

// FileType is the lower-cased extension of an accepted résumé file.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
)

// MaxFileSize is the largest accepted upload, inclusive.
const MaxFileSize = 5 * 1024 * 1024

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ContentType returns the MIME type stored with the blob.
func (t FileType) ContentType() string {
	switch t {
	case FileTypePDF:
		return mimePDF
	case FileTypeDOCX:
		return mimeDOCX
	default:
		return "application/octet-stream"
	}
}

// Resume is the metadata record of a user's active résumé.
type Resume struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	FileName    string    `json:"fileName"`
	FileRef     string    `json:"fileRef"`
	FileType    FileType  `json:"fileType"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	Keywords    []string  `json:"keywords"`
	UploadDate  time.Time `json:"uploadDate"`
}

// Clone returns a deep copy that shares no memory with r.
func (r Resume) Clone() Resume {
	out := r
	if r.Keywords != nil {
		out.Keywords = append([]string(nil), r.Keywords...)
	}
	return out
}
