// Package archive сохраняет копии CSV-отчетов в S3-совместимом бакете (AWS S3, MinIO).
package archive

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/config"
	"github.com/magabrotheeeer/pharmacy-expiry-tracker/internal/expiry"
)

const (
	keyPrefix     = "reports"
	keyTimestamp  = "20060102T150405Z"
	defaultRegion = "us-east-1"
)

// Store загружает отчеты в один бакет.
type Store struct {
	client *s3.Client
	bucket string
}

// New создает Store по настройкам архива. Без явных ключей доступа используется
// стандартная цепочка учетных данных AWS (переменные окружения, профиль, роль).
func New(ctx context.Context, cfg config.ReportArchive, optFns ...func(*s3.Options)) (*Store, error) {
	const op = "archive.New"
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%s: bucket is required", op)
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)
	client := s3.NewFromConfig(awsCfg, opts...)
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Key строит ключ объекта: reports/<owner>/<YYYYMMDDTHHMMSSZ>-<view>.csv.
func Key(owner, view string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%s-%s.csv", keyPrefix, owner, at.UTC().Format(keyTimestamp), sanitize(view))
}

// Upload сохраняет отчет и возвращает ключ объекта.
func (s *Store) Upload(ctx context.Context, owner, view string, at time.Time, report []byte) (string, error) {
	const op = "archive.Upload"
	key := Key(owner, view, at)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(report),
		ContentLength: aws.Int64(int64(len(report))),
		ContentType:   aws.String(expiry.ContentType),
		Metadata:      map[string]string{"owner": owner, "view": view},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %s: %w", op, key, err)
	}
	return key, nil
}

func sanitize(view string) string {
	if view == "" {
		return "all"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, strings.ToLower(view))
}
