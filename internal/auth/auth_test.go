package auth

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"google.golang.org/genai"
)

func TestGetAPIKeyFromEnv(t *testing.T) {
	const testKey = "test-api-key-12345"

	originalKey := os.Getenv("GEMINI_API_KEY")
	defer os.Setenv("GEMINI_API_KEY", originalKey)

	os.Setenv("GEMINI_API_KEY", testKey)

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if key != testKey {
		t.Errorf("expected key %q, got %q", testKey, key)
	}
}

func TestGetAPIKeyNoSource(t *testing.T) {
	originalKey := os.Getenv("GEMINI_API_KEY")
	defer os.Setenv("GEMINI_API_KEY", originalKey)

	os.Unsetenv("GEMINI_API_KEY")

	_, err := GetAPIKey()
	if err == nil {
		t.Error("expected error when no API key source available")
	}
}

func TestClassifyErrorPatterns(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ValidationErrorType
	}{
		{"invalid key message", errors.New("API key not valid. Please pass a valid API key"), ErrTypeInvalidKey},
		{"quota message", errors.New("resource exhausted: quota exceeded"), ErrTypeQuotaExceeded},
		{"network message", errors.New("dial tcp: no such host"), ErrTypeNetworkError},
		{"unknown message", errors.New("something else entirely"), ErrTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			if got.Type != tt.want {
				t.Errorf("classifyError(%q).Type = %d, want %d", tt.err, got.Type, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should wrap the original")
			}
		})
	}
}

func TestClassifyAPIErrorCodes(t *testing.T) {
	tests := []struct {
		code int
		want ValidationErrorType
	}{
		{400, ErrTypeInvalidKey},
		{401, ErrTypeInvalidKey},
		{403, ErrTypeInvalidKey},
		{429, ErrTypeQuotaExceeded},
		{503, ErrTypeNetworkError},
		{418, ErrTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("code_%d", tt.code), func(t *testing.T) {
			got := classifyAPIError(&genai.APIError{Code: tt.code, Message: "test"})
			if got.Type != tt.want {
				t.Errorf("classifyAPIError(%d).Type = %d, want %d", tt.code, got.Type, tt.want)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Type: ErrTypeInvalidKey, Message: "bad key", Err: errors.New("403")}
	if err.Error() != "bad key: 403" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	bare := &ValidationError{Type: ErrTypeNoKey, Message: "no key"}
	if bare.Error() != "no key" {
		t.Errorf("unexpected message: %q", bare.Error())
	}
}
