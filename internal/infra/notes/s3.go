package notes

import (
	"bytes"
	"context"
	"errors"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/config"
	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/consultation"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/logger"
)

const (
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	presignTTL      = 15 * time.Minute
)

// S3API is the subset of the S3 client the store calls.
type S3API interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type Presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store keeps notes at <prefix>/<id>/notes/consultation_notes.docx in one bucket.
type S3Store struct {
	client  S3API
	presign Presigner
	bucket  string
	prefix  string
}

func NewS3Store(client S3API, presign Presigner, bucket, prefix string) *S3Store {
	return &S3Store{
		client:  client,
		presign: presign,
		bucket:  bucket,
		prefix:  prefix,
	}
}

// NewS3StoreFromConfig builds the client from static credentials. A custom
// endpoint switches to path-style addressing for MinIO and similar servers.
func NewS3StoreFromConfig(cfg *config.Config) *S3Store {
	awsCfg := aws.Config{
		Region:      cfg.S3Region,
		Credentials: aws.AnonymousCredentials{},
	}
	if cfg.S3AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3Store(client, s3.NewPresignClient(client), cfg.S3Bucket, cfg.S3Prefix)
}

func (s *S3Store) folder(id uuid.UUID) string {
	return path.Join(s.prefix, id.String()) + "/"
}

func (s *S3Store) key(id uuid.UUID) string {
	return path.Join(s.prefix, id.String(), notesDir, notesFile)
}

func isMissing(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

func (s *S3Store) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if isMissing(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *S3Store) Provision(ctx context.Context, id uuid.UUID) error {
	ok, err := s.exists(ctx, id)
	if err != nil {
		return httperr.IO("notes_provision_failed", "The notes could not be created.", err)
	}
	if ok {
		return nil
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(nil),
		ContentType: aws.String(docxContentType),
	}); err != nil {
		return httperr.IO("notes_provision_failed", "The notes could not be created.", err)
	}

	logger.WithField("consultation_id", id).Debug("notes provisioned in bucket")
	return nil
}

// Remove deletes every object under the consultation's folder.
func (s *S3Store) Remove(ctx context.Context, id uuid.UUID) error {
	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.folder(id)),
	}

	for {
		out, err := s.client.ListObjectsV2(ctx, in)
		if err != nil {
			return httperr.IO("notes_remove_failed", "The notes could not be removed.", err)
		}

		for _, obj := range out.Contents {
			if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			}); err != nil && !isMissing(err) {
				return httperr.IO("notes_remove_failed", "The notes could not be removed.", err)
			}
		}

		if !aws.ToBool(out.IsTruncated) {
			return nil
		}
		in.ContinuationToken = out.NextContinuationToken
	}
}

// Open returns a short-lived presigned download URL.
func (s *S3Store) Open(ctx context.Context, id uuid.UUID) (string, error) {
	ok, err := s.exists(ctx, id)
	if err != nil {
		return "", httperr.IO("notes_open_failed", "The notes could not be opened.", err)
	}
	if !ok {
		return "", errNotesNotFound()
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", httperr.IO("notes_open_failed", "The notes could not be opened.", err)
	}
	return req.URL, nil
}

var _ domain.NotesStore = (*S3Store)(nil)
