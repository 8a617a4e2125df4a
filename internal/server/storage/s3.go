package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/chanvault/chanvault/internal/common"
)

// Seams for testing the AWS calls without a live endpoint.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	s3PutObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	s3GetObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in)
	}
	s3HeadObject = func(c *s3.Client, ctx context.Context, in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
		return c.HeadObject(ctx, in)
	}
	s3DeleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Config carries the object-storage driver settings.
type S3Config struct {
	RootUser        string
	RootPassword    string
	Bucket          string
	Region          string
	BaseEndpoint    string
	PresignValidity time.Duration
}

// S3Store is the alternate backing store: objects keyed by generated UUIDs
// (the handle), presigned GET URLs as the direct object URL.
type S3Store struct {
	cfg S3Config
}

func NewS3Store(cfg S3Config) *S3Store {
	return &S3Store{cfg: cfg}
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.RootUser,
			s.cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

const textContentType = "text/plain; charset=utf-8"

// head maps a missing key to common.ErrNotFoundInStorage.
func (s *S3Store) head(ctx context.Context, client *s3.Client, handle string) (*s3.HeadObjectOutput, error) {
	out, err := s3HeadObject(client, ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(handle),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, common.ErrNotFoundInStorage
		}
		return nil, fmt.Errorf("s3 head: %w", err)
	}
	return out, nil
}

func (s *S3Store) SendText(ctx context.Context, text string) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	handle := uuid.NewString()
	_, err = s3PutObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(handle),
		Body:        strings.NewReader(text),
		ContentType: aws.String(textContentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 send: %w", err)
	}
	return handle, nil
}

func (s *S3Store) SendFile(ctx context.Context, filename, mimeType string, r io.Reader, size int64) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	handle := uuid.NewString()
	_, err = s3PutObject(client, ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.cfg.Bucket),
		Key:                aws.String(handle),
		Body:               r,
		ContentLength:      aws.Int64(size),
		ContentType:        aws.String(mimeType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", filename)),
	})
	if err != nil {
		return "", fmt.Errorf("s3 send file: %w", err)
	}
	return handle, nil
}

func (s *S3Store) Fetch(ctx context.Context, handle string) (*Object, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	head, err := s.head(ctx, client, handle)
	if err != nil {
		return nil, err
	}

	obj := &Object{}

	// Inline content only for text objects; binary payloads are served via
	// the presigned URL instead of being proxied through this process.
	if aws.ToString(head.ContentType) == textContentType {
		out, err := s3GetObject(client, ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.cfg.Bucket),
			Key:    aws.String(handle),
		})
		if err != nil {
			return nil, fmt.Errorf("s3 get: %w", err)
		}
		defer out.Body.Close()
		body, err := io.ReadAll(out.Body)
		if err != nil {
			return nil, fmt.Errorf("s3 get: %w", err)
		}
		obj.Text = string(body)
		return obj, nil
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(handle),
	}, s3.WithPresignExpires(s.cfg.PresignValidity))
	if err != nil {
		return nil, fmt.Errorf("s3 presign: %w", err)
	}
	obj.AttachmentURL = req.URL
	return obj, nil
}

func (s *S3Store) EditText(ctx context.Context, handle, text string) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	if _, err := s.head(ctx, client, handle); err != nil {
		return err
	}

	_, err = s3PutObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(handle),
		Body:        strings.NewReader(text),
		ContentType: aws.String(textContentType),
	})
	if err != nil {
		return fmt.Errorf("s3 edit: %w", err)
	}
	return nil
}

func (s *S3Store) Remove(ctx context.Context, handle string) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	if _, err := s.head(ctx, client, handle); err != nil {
		return err
	}

	_, err = s3DeleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(handle),
	})
	if err != nil {
		return fmt.Errorf("s3 remove: %w", err)
	}
	return nil
}
