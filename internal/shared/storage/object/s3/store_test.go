package s3

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func newOfflineStore(prefix string) *Store {
	client := s3.New(s3.Options{
		Region: "us-east-1",
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret"}, nil
		}),
	})
	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  "jobassist-test",
		prefix:  prefix,
	}
}

func TestSignedURLAppliesPrefixAndTTL(t *testing.T) {
	t.Parallel()

	s := newOfflineStore("resumes")
	got, err := s.SignedURL(context.Background(), "user-u1/1700000000000_resume.pdf", 15*time.Minute)
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}
	if !strings.Contains(got, "resumes/user-u1/1700000000000_resume.pdf") {
		t.Fatalf("expected prefixed key in %q", got)
	}
	if !strings.Contains(got, "X-Amz-Expires=900") {
		t.Fatalf("expected 900s expiry in %q", got)
	}
	if !strings.Contains(got, "X-Amz-Signature=") {
		t.Fatalf("expected signature in %q", got)
	}
}

func TestPutHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	s := newOfflineStore("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Put(ctx, "k", "application/pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
	if err := s.Delete(ctx, "k"); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
