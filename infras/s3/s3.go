package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"tablebook/config"
	"tablebook/infras/otel"
	"tablebook/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
)

// S3 stores public images in the configured bucket.
type S3 interface {
	UploadImage(ctx context.Context, directory string, file multipart.File, fileHeader *multipart.FileHeader) (url string, err error)
	DeleteByURL(ctx context.Context, url string) error
}

type s3Impl struct {
	client *s3.Client
	config *config.Config
	otel   otel.Otel
}

func New(config *config.Config, otel otel.Otel) S3 {
	staticProvider := credentials.NewStaticCredentialsProvider(
		config.External.S3.AccessKeyID,
		config.External.S3.SecretAccessKey,
		"",
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(staticProvider),
	)
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(config.External.S3.APIEndpoint)
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return &s3Impl{
		client: client,
		config: config,
		otel:   otel,
	}
}

// UploadImage stores the file under directory with a random name that keeps
// the original extension, and returns its public URL.
func (svc *s3Impl) UploadImage(ctx context.Context, directory string, file multipart.File, fileHeader *multipart.FileHeader) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadImage")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	objectKey := path.Join(directory, uuid.NewString()+strings.ToLower(filepath.Ext(fileHeader.Filename)))
	bucket := svc.config.External.S3.BucketName

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    bucket,
	})

	buf := bytes.NewBuffer(nil)
	if _, err = buf.ReadFrom(file); err != nil {
		return constant.Empty, fmt.Errorf("failed to read file: %w", err)
	}

	reader := bytes.NewReader(buf.Bytes())

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(objectKey),
		Body:          reader,
		ContentType:   aws.String(fileHeader.Header.Get(constant.RequestHeaderContentType)),
		ContentLength: aws.Int64(reader.Size()),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to upload file to S3")

		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(svc.config.External.S3.PublicDomain, "/"), objectKey), nil
}

// DeleteByURL removes the object behind a URL returned by UploadImage. URLs
// outside the public domain are ignored.
func (svc *s3Impl) DeleteByURL(ctx context.Context, url string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".DeleteByURL")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	objectKey := ObjectKeyFromURL(svc.config.External.S3.PublicDomain, url)
	if objectKey == constant.Empty {
		return nil
	}

	bucket := svc.config.External.S3.BucketName

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    bucket,
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to delete file from S3")

		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// ObjectKeyFromURL strips the public domain from url. It returns an empty
// string when url does not belong to that domain.
func ObjectKeyFromURL(publicDomain, url string) string {
	prefix := strings.TrimSuffix(publicDomain, "/") + "/"
	if publicDomain == constant.Empty || !strings.HasPrefix(url, prefix) {
		return constant.Empty
	}

	return strings.TrimPrefix(url, prefix)
}
