package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options selects where uploads go.
type S3Options struct {
	Bucket    string
	KeyPrefix string
	// PublicBaseURL, when set, is used to build returned locations instead of s3:// URIs.
	// Those locations are only readable when ACL is public-read or a bucket
	// policy or CDN grants access.
	PublicBaseURL string
	// ACL is the canned ACL applied to uploads; empty means private.
	ACL string
}

// S3Service stores uploads in Amazon S3 (or compatible APIs).
type S3Service struct {
	client   *s3.Client
	uploader *manager.Uploader
	opts     S3Options
}

func NewS3Service(client *s3.Client, opts S3Options) (*S3Service, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	acl, err := cannedACL(opts.ACL)
	if err != nil {
		return nil, err
	}
	opts.ACL = string(acl)
	opts.KeyPrefix = strings.Trim(opts.KeyPrefix, "/")
	opts.PublicBaseURL = strings.TrimRight(opts.PublicBaseURL, "/")
	return &S3Service{
		client:   client,
		uploader: manager.NewUploader(client),
		opts:     opts,
	}, nil
}

func (s *S3Service) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	fullKey := s.objectKey(key)
	if fullKey == "" {
		return "", fmt.Errorf("object key is required")
	}

	if _, err := s.uploader.Upload(ctx, s.putObjectInput(fullKey, body, contentType)); err != nil {
		return "", fmt.Errorf("upload %s: %w", fullKey, err)
	}

	return s.location(fullKey), nil
}

func (s *S3Service) putObjectInput(fullKey string, body io.Reader, contentType string) *s3.PutObjectInput {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(fullKey),
		Body:   body,
		ACL:    types.ObjectCannedACL(s.opts.ACL),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	return input
}

func cannedACL(name string) (types.ObjectCannedACL, error) {
	if name == "" {
		return types.ObjectCannedACLPrivate, nil
	}
	for _, acl := range types.ObjectCannedACLPrivate.Values() {
		if string(acl) == name {
			return acl, nil
		}
	}
	return "", fmt.Errorf("unsupported object acl %q", name)
}

func (s *S3Service) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.opts.Bucket),
	}
	if p := s.objectKey(prefix); p != "" {
		input.Prefix = aws.String(p)
	}

	for {
		output, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}

		for _, obj := range output.Contents {
			objects = append(objects, ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: obj.LastModified,
			})
		}

		if !aws.ToBool(output.IsTruncated) || output.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = output.NextContinuationToken
	}

	return objects, nil
}

func (s *S3Service) objectKey(key string) string {
	return joinKey(s.opts.KeyPrefix, key)
}

func (s *S3Service) location(fullKey string) string {
	if s.opts.PublicBaseURL != "" {
		return s.opts.PublicBaseURL + "/" + fullKey
	}
	return fmt.Sprintf("s3://%s/%s", s.opts.Bucket, fullKey)
}

func joinKey(prefix, key string) string {
	key = strings.Trim(key, "/")
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "/" + key
	}
}

var _ Service = (*S3Service)(nil)
