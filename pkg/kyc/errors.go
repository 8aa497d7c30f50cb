package kyc

import "errors"

var (
	ErrUnsupportedDocument    = errors.New("unsupported document type")
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrDocumentTooLarge       = errors.New("document exceeds the size limit")
	ErrEmptyDocument          = errors.New("document is empty")
	ErrUpload                 = errors.New("document upload failed")
	ErrMissingBucket          = errors.New("bucket and region are required")
)
