package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"resume-chat/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "backgrounds/a.png", want: "backgrounds/a.png"},
		{name: "simple prefix", prefix: "root", key: "backgrounds/a.png", want: "root/backgrounds/a.png"},
		{name: "prefix trailing slash", prefix: "root/", key: "backgrounds/a.png", want: "root/backgrounds/a.png"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/backgrounds/a.png", want: "root/backgrounds/a.png"},
		{name: "nested prefix", prefix: "root/sub", key: "backgrounds/a.png", want: "root/sub/backgrounds/a.png"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    string
	getKey  string
	putErr  error
	objects map[string]string
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.put = in
	f.body = string(data)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.getKey = aws.ToString(in.Key)
	body, ok := f.objects[f.getKey]
	if !ok {
		return nil, &s3types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestPutUsesPrefixAndEncryption(t *testing.T) {
	fake := &fakeS3{}
	store := newWithClient(fake, "bucket", "/chat/", "")

	n, err := store.Put(context.Background(), "backgrounds/a.png", "image/png", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 bytes counted, got %d", n)
	}
	if got := aws.ToString(fake.put.Key); got != "chat/backgrounds/a.png" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := aws.ToString(fake.put.ContentType); got != "image/png" {
		t.Fatalf("unexpected content type %q", got)
	}
	if fake.put.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256 encryption, got %q", fake.put.ServerSideEncryption)
	}
	if fake.body != "img" {
		t.Fatalf("unexpected body %q", fake.body)
	}
}

func TestPutWithKMSKey(t *testing.T) {
	fake := &fakeS3{}
	store := newWithClient(fake, "bucket", "", "kms-1")

	if _, err := store.Put(context.Background(), "a.png", "image/png", strings.NewReader("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if fake.put.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms {
		t.Fatalf("expected KMS encryption, got %q", fake.put.ServerSideEncryption)
	}
	if aws.ToString(fake.put.SSEKMSKeyId) != "kms-1" {
		t.Fatalf("expected kms key id")
	}
}

func TestPutWrapsClientError(t *testing.T) {
	fake := &fakeS3{putErr: errors.New("denied")}
	store := newWithClient(fake, "bucket", "", "")

	_, err := store.Put(context.Background(), "a.png", "image/png", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "s3 put object bucket=bucket key=a.png") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOpenAndInvalidKey(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"p/a.png": "data"}}
	store := newWithClient(fake, "bucket", "p", "")

	rc, err := store.Open(context.Background(), "a.png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "data" {
		t.Fatalf("unexpected data %q", data)
	}

	if _, err := store.Open(context.Background(), "../x"); !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestOpenMissingKeyIsNotFound(t *testing.T) {
	store := newWithClient(&fakeS3{}, "bucket", "", "")

	_, err := store.Open(context.Background(), "backgrounds/missing.png")
	if !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), "us-east-1", " ", "", ""); err == nil {
		t.Fatalf("expected error for empty bucket")
	}
}
