// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	client := s3.NewFromConfig(cfg)
//	store := bmserials3.NewStore(client, "my-bucket", "streams/")
//
//	buf, _, err := bmserial.SerializeIntoResizable(bv)
//	err = store.Put(ctx, blobstore.NewBlobID(), buf)
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads for large serialized streams
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
