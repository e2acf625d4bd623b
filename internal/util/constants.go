package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeImage       = "image/"
	MimePDF         = "application/pdf"
	MimeText        = "text/plain"
	MimeOctetStream = "application/octet-stream"
)

// Upload allow-lists for the file and image content variants.
var (
	AllowedFileMimeTypes = []string{
		MimePDF,
		MimeText,
		MimeImage,
		MimeOctetStream,
		"application/zip",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	AllowedImageMimeTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}
)
