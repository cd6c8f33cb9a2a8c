package objectstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"workforce/internal/platform/config"
)

func TestLocalStorePutGet(t *testing.T) {
	store := NewLocal(t.TempDir())
	key := ReportKey("t1", "r1", "pdf")
	n, err := store.Put(context.Background(), key, "application/pdf", strings.NewReader("%PDF-1.3"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 8 bytes written, got %d", n)
	}
	rc, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF-1.3" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestLocalStoreDelete(t *testing.T) {
	store := NewLocal(t.TempDir())
	ctx := context.Background()
	key := ReportKey("t1", "r1", "pdf")
	if _, err := store.Put(ctx, key, "application/pdf", strings.NewReader("%PDF")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected deleted object to be gone, got %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("expected deleting a missing object to succeed, got %v", err)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store := NewLocal(t.TempDir())
	for _, key := range []string{"../escape.pdf", "", "a/../../b"} {
		if _, err := store.Put(context.Background(), key, "", strings.NewReader("x")); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestReportKey(t *testing.T) {
	if got := ReportKey("t1", "r9", ".xlsx"); got != "tenants/t1/reports/r9.xlsx" {
		t.Fatalf("unexpected key %q", got)
	}
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    []byte
	deleted []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if aws.ToString(in.Key) != aws.ToString(f.put.Key) {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StoreDelete(t *testing.T) {
	fake := &fakeS3{}
	store := newS3WithClient(fake, "bucket", "reports", "")
	if err := store.Delete(context.Background(), "tenants/t1/reports/r1.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != "bucket/reports/tenants/t1/reports/r1.pdf" {
		t.Fatalf("unexpected deletes %v", fake.deleted)
	}
	if err := store.Delete(context.Background(), "../x"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestS3StoreAppliesPrefixAndEncryption(t *testing.T) {
	fake := &fakeS3{}
	store := newS3WithClient(fake, "bucket", "/reports/", "kms-key")
	n, err := store.Put(context.Background(), "tenants/t1/reports/r1.pdf", "application/pdf", strings.NewReader("pdf"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 bytes counted, got %d", n)
	}
	if aws.ToString(fake.put.Key) != "reports/tenants/t1/reports/r1.pdf" {
		t.Fatalf("unexpected object key %q", aws.ToString(fake.put.Key))
	}
	if fake.put.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(fake.put.SSEKMSKeyId) != "kms-key" {
		t.Fatalf("expected kms encryption, got %v", fake.put.ServerSideEncryption)
	}

	rc, err := store.Get(context.Background(), "tenants/t1/reports/r1.pdf")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	if string(data) != "pdf" {
		t.Fatalf("unexpected body %q", data)
	}
}

func TestS3StoreDefaultsToAES256(t *testing.T) {
	fake := &fakeS3{}
	store := newS3WithClient(fake, "bucket", "", "")
	if _, err := store.Put(context.Background(), "k.pdf", "application/pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if fake.put.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256, got %v", fake.put.ServerSideEncryption)
	}
	if aws.ToString(fake.put.Key) != "k.pdf" {
		t.Fatalf("unexpected key %q", aws.ToString(fake.put.Key))
	}
}

func TestNewNoneReturnsNil(t *testing.T) {
	store, err := New(context.Background(), config.Config{ObjectStore: config.ObjectStoreNone})
	if err != nil || store != nil {
		t.Fatalf("expected nil store, got %v %v", store, err)
	}
}
