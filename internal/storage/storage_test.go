package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"sociopedia/internal/model"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "avatar.png", want: "avatar.png"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: `..\..\boot.ini`, want: "boot.ini"},
		{in: "nested/dir/pic.jpg", want: "pic.jpg"},
		{in: "", wantErr: true},
		{in: "..", wantErr: true},
		{in: "/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cleanName(tt.in)
			if tt.wantErr {
				if !errors.Is(err, model.ErrInvalidFilename) {
					t.Errorf("error = %v, want %v", err, model.ErrInvalidFilename)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cleanName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDiskStorage_SaveOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public", "assets")
	s, err := NewDiskStorage(dir)
	if err != nil {
		t.Fatal(err)
	}

	name, err := s.Save(context.Background(), "p1.jpeg", strings.NewReader("first"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if name != "p1.jpeg" {
		t.Errorf("name = %q, want p1.jpeg", name)
	}

	if _, err := s.Save(context.Background(), "p1.jpeg", strings.NewReader("second")); err != nil {
		t.Fatalf("second save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "p1.jpeg"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want later upload to win", data)
	}
}

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestR2Storage_Save(t *testing.T) {
	fake := &fakeS3{}
	s := newR2Storage(fake, "pictures", "https://cdn.example.com/")

	path, err := s.Save(context.Background(), "dir/p2.png", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if path != "https://cdn.example.com/p2.png" {
		t.Errorf("path = %q, want the public url", path)
	}
	if len(fake.inputs) != 1 {
		t.Fatalf("PutObject called %d times, want 1", len(fake.inputs))
	}
	in := fake.inputs[0]
	if aws.ToString(in.Bucket) != "pictures" || aws.ToString(in.Key) != "p2.png" {
		t.Errorf("bucket/key = %s/%s", aws.ToString(in.Bucket), aws.ToString(in.Key))
	}
	if aws.ToString(in.ContentType) == "" || aws.ToString(in.CacheControl) != pictureCacheControl {
		t.Errorf("content-type/cache-control = %q/%q", aws.ToString(in.ContentType), aws.ToString(in.CacheControl))
	}
}

func TestR2Storage_SaveError(t *testing.T) {
	putErr := errors.New("denied")
	s := newR2Storage(&fakeS3{err: putErr}, "pictures", "https://cdn.example.com")

	_, err := s.Save(context.Background(), "p.png", strings.NewReader("x"))
	if !errors.Is(err, putErr) {
		t.Errorf("error = %v, want wrapped %v", err, putErr)
	}
}
