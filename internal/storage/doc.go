// Package storage persists generated export archives in a Go CDK blob bucket.
//
// The bucket defaults to a local directory (fileblob) rooted at the configured media root, so archive keys
// such as "translation_exports/<id>.zip" map directly onto the paths served under the media URL.
// Any bucket URL understood by [blob.OpenBucket] may be configured instead; "mem://" is used by tests.
package storage
