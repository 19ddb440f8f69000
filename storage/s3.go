package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"docsync/models"
)

// API ist der Ausschnitt des S3-Clients, den Bucket benötigt.
type API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewS3Client erstellt einen S3-Client für einen S3-kompatiblen Endpunkt (MinIO, R2).
func NewS3Client(ctx context.Context, endpoint, region, key, secret string) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, r string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               endpoint,
				SigningRegion:     region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config for %s: %w", endpoint, err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	}), nil
}

// Bucket bündelt Client und Bucketname.
type Bucket struct {
	api    API
	name   string
	logger *zap.Logger
}

func NewBucket(api API, name string, logger *zap.Logger) *Bucket {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bucket{api: api, name: name, logger: logger.With(zap.String("bucket", name))}
}

func (b *Bucket) Name() string { return b.name }

// ListResult ist das Ergebnis eines Listings. Partial ist gesetzt, wenn eine Seite
// fehlschlug und die Liste nur die bis dahin gelesenen Objekte enthält.
type ListResult struct {
	Objects []models.ObjectRecord
	Partial bool
	Err     error
}

// List liest alle Objekte mit dem Präfix seitenweise. Bei einem Seitenfehler wird das
// Teilergebnis mit Partial zurückgegeben, im strikten Modus zusammen mit dem Fehler.
func (b *Bucket) List(ctx context.Context, prefix string, strict bool) (*ListResult, error) {
	in := &s3.ListObjectsV2Input{Bucket: aws.String(b.name)}
	if prefix != "" {
		in.Prefix = aws.String(prefix)
	}
	paginator := s3.NewListObjectsV2Paginator(b.api, in)

	res := &ListResult{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			res.Partial = true
			res.Err = err
			if strict {
				return res, fmt.Errorf("list %s: %w", b.name, err)
			}
			b.logger.Warn("listing incomplete", zap.Int("objects", len(res.Objects)), zap.Error(err))
			return res, nil
		}
		for _, obj := range page.Contents {
			res.Objects = append(res.Objects, models.ObjectRecord{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			})
		}
	}
	return res, nil
}

// Get lädt ein Objekt vollständig.
func (b *Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := b.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", b.name, key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", b.name, key, err)
	}
	return data, nil
}

// Put lädt data unter key hoch. contentType darf leer sein.
func (b *Bucket) Put(ctx context.Context, key string, data []byte, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := b.api.PutObject(ctx, in); err != nil {
		return fmt.Errorf("put %s/%s: %w", b.name, key, err)
	}
	return nil
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	_, err := b.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", b.name, key, err)
	}
	return nil
}
