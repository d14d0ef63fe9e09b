package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/google/uuid"
)

const exportURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	now = time.Now
)

// exportDocument is the JSON layout of an uploaded export.
type exportDocument struct {
	OwnerID    int64          `json:"owner_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Notes      []*models.Note `json:"notes"`
}

// ExportStorageKey returns a fresh object key for an export of ownerID.
func ExportStorageKey(ownerID int64, t time.Time) string {
	return fmt.Sprintf("users/%d/exports/%04d/%02d/%02d/%v.json", ownerID, t.Year(), t.Month(), t.Day(), uuid.New())
}

func (s *NoteService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Export uploads the caller's notes as a JSON document and returns its key
// together with a presigned download URL.
func (s *NoteService) Export(ctx context.Context, caller *models.User) (*models.NoteExport, error) {
	notes, err := s.List(ctx, caller)
	if err != nil {
		return nil, err
	}

	t := now().UTC()
	body, err := json.Marshal(exportDocument{OwnerID: caller.ID, ExportedAt: t, Notes: notes})
	if err != nil {
		return nil, fmt.Errorf("error encoding export: %w", err)
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := ExportStorageKey(caller.ID, t)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("error uploading export: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(exportURLValidity))
	if err != nil {
		return nil, fmt.Errorf("error presigning export: %w", err)
	}

	return &models.NoteExport{Key: key, URL: req.URL, Count: len(notes)}, nil
}
