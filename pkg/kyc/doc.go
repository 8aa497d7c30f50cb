// Package kyc handles identity-document submission for trust verification.
//
// A Service validates the uploaded document and stores it through an
// Uploader. S3Uploader is the production implementation; LocalUploader keeps
// files on disk for development. Verification outcomes arrive later as
// kyc_approved / kyc_rejected notifications from the platform.
package kyc
