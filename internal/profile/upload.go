// Photo storage backends: S3 for production, local disk for development

package profile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// UploadService stores and removes profile photos
type UploadService interface {
	UploadPhoto(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error)
	DeletePhoto(ctx context.Context, url string) error
}

// maxPhotoSize caps uploads at 8MB
const maxPhotoSize = 8 << 20

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// validatePhoto checks size and content type before any storage work
func validatePhoto(header *multipart.FileHeader) (string, error) {
	if header.Size > maxPhotoSize {
		return "", ErrPhotoTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedPhotoTypes[strings.ToLower(contentType)]
	if !ok {
		return "", ErrInvalidPhotoFormat
	}
	return ext, nil
}

// photoKey builds a collision-free object name
func photoKey(folder, ext string) string {
	return fmt.Sprintf("%s/%s_%d%s", folder, uuid.New().String(), time.Now().Unix(), ext)
}

// LocalUploadService stores photos on local disk
type LocalUploadService struct {
	uploadDir string
	baseURL   string
}

// NewLocalUploadService creates a local disk upload service
func NewLocalUploadService(uploadDir, baseURL string) UploadService {
	return &LocalUploadService{
		uploadDir: uploadDir,
		baseURL:   baseURL,
	}
}

func (s *LocalUploadService) UploadPhoto(_ context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	ext, err := validatePhoto(header)
	if err != nil {
		return "", err
	}

	key := photoKey(folder, ext)
	fullPath := filepath.Join(s.uploadDir, key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s", s.baseURL, key), nil
}

func (s *LocalUploadService) DeletePhoto(_ context.Context, url string) error {
	idx := strings.Index(url, "/uploads/")
	if idx < 0 {
		return nil
	}
	relativePath := url[idx+len("/uploads/"):]

	if err := os.Remove(filepath.Join(s.uploadDir, relativePath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// S3UploadService stores photos in AWS S3
type S3UploadService struct {
	s3Client *s3.S3
	bucket   string
	baseURL  string
}

// NewS3UploadService creates an S3-backed upload service
func NewS3UploadService(bucket, region string) (UploadService, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3UploadService{
		s3Client: s3.New(sess),
		bucket:   bucket,
		baseURL:  fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region),
	}, nil
}

func (s *S3UploadService) UploadPhoto(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	ext, err := validatePhoto(header)
	if err != nil {
		return "", err
	}

	fileBytes, err := io.ReadAll(io.LimitReader(file, maxPhotoSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(fileBytes) > maxPhotoSize {
		return "", ErrPhotoTooLarge
	}

	key := photoKey(folder, ext)

	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(fileBytes),
		ContentType: aws.String(header.Header.Get("Content-Type")),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

func (s *S3UploadService) DeletePhoto(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return nil
	}
	key := strings.TrimPrefix(url, s.baseURL+"/")

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
