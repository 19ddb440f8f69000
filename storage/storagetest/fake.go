// Package storagetest stellt einen In-Memory-S3 für Tests bereit.
package storagetest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrInjected ist der Fehler, den FailPut und FailListAfter erzeugen.
var ErrInjected = errors.New("injected failure")

// FakeS3 implementiert storage.API im Speicher. PageSize steuert die Seitengröße beim Listing.
type FakeS3 struct {
	mu sync.Mutex

	Objects      map[string][]byte
	ContentTypes map[string]string
	PageSize     int

	// FailPut[key] = n lässt die nächsten n Uploads von key fehlschlagen.
	FailPut map[string]int
	// FailListAfter > 0 lässt das Listing nach so vielen Seiten fehlschlagen.
	FailListAfter int

	Puts  map[string]int
	pages int
}

func New() *FakeS3 {
	return &FakeS3{
		Objects:      make(map[string][]byte),
		ContentTypes: make(map[string]string),
		FailPut:      make(map[string]int),
		Puts:         make(map[string]int),
		PageSize:     1000,
	}
}

// Seed legt ein Objekt ohne Zählung an.
func (f *FakeS3) Seed(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Objects[key] = data
}

func (f *FakeS3) Object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.Objects[key]
	return data, ok
}

func (f *FakeS3) PutCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Puts[key]
}

func (f *FakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pages++
	if f.FailListAfter > 0 && f.pages > f.FailListAfter {
		return nil, ErrInjected
	}

	prefix := aws.ToString(in.Prefix)
	keys := make([]string, 0, len(f.Objects))
	for k := range f.Objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if tok := aws.ToString(in.ContinuationToken); tok != "" {
		start, _ = strconv.Atoi(tok)
	}
	end := start + f.PageSize
	if end > len(keys) {
		end = len(keys)
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{
			Key:  aws.String(k),
			Size: aws.Int64(int64(len(f.Objects[k]))),
		})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *FakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.Objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *FakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	f.Puts[key]++
	if f.FailPut[key] > 0 {
		f.FailPut[key]--
		return nil, ErrInjected
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.Objects[key] = data
	f.ContentTypes[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *FakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}
