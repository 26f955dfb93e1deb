package models

import "strings"

// FileType categorizes a vault file for icon selection and viewer embedding
type FileType string

const (
	FileTypeDoc     FileType = "doc"
	FileTypeSheet   FileType = "sheet"
	FileTypeSlides  FileType = "slides"
	FileTypePDF     FileType = "pdf"
	FileTypeText    FileType = "text"
	FileTypeVideo   FileType = "video"
	FileTypeYouTube FileType = "youtube"
	FileTypeGeneric FileType = "file"
)

// VaultFile represents a single document exposed by the content backend
type VaultFile struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MimeType     string   `json:"mimeType"`
	WebViewLink  string   `json:"webViewLink"`
	IconLink     string   `json:"iconLink"`
	CreatedDate  string   `json:"createdDate"`
	ModifiedDate string   `json:"modifiedDate"`
	FileType     FileType `json:"fileType"`
	YouTubeURL   string   `json:"youtubeUrl,omitempty"`
}

// FileTypeFromMIME maps a MIME type to a FileType. Used as a fallback when
// the backend omits the fileType field on a listing entry.
func FileTypeFromMIME(mimeType string) FileType {
	switch {
	case mimeType == "application/vnd.google-apps.document":
		return FileTypeDoc
	case mimeType == "application/vnd.google-apps.spreadsheet":
		return FileTypeSheet
	case mimeType == "application/vnd.google-apps.presentation":
		return FileTypeSlides
	case mimeType == "application/pdf":
		return FileTypePDF
	case strings.HasPrefix(mimeType, "text/"):
		return FileTypeText
	case strings.HasPrefix(mimeType, "video/"):
		return FileTypeVideo
	default:
		return FileTypeGeneric
	}
}

// Normalize fills in a missing or unknown fileType from the MIME type.
// YouTube entries are identified by the backend and left untouched.
func (f *VaultFile) Normalize() {
	switch f.FileType {
	case FileTypeDoc, FileTypeSheet, FileTypeSlides, FileTypePDF,
		FileTypeText, FileTypeVideo, FileTypeYouTube:
		return
	}
	f.FileType = FileTypeFromMIME(f.MimeType)
}
