package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"file_size":10,"duration":60}`},
		{name: "no duration", body: `{"file_size":10}`},
		{name: "zero size", body: `{"file_size":0}`, wantErr: "file_size failed gt validation"},
		{name: "negative duration", body: `{"file_size":10,"duration":-1}`, wantErr: "duration failed gte validation"},
		{name: "malformed", body: `{"file_size":`, wantErr: "invalid payload"},
		{name: "unknown field", body: `{"file_size":10,"size":1}`, wantErr: "invalid payload"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dst uploadValidateRequest
			err := decodeRequest(req, &dst)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("decodeRequest() error = %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.wantErr {
				t.Fatalf("decodeRequest() error = %v, want %q", err, tc.wantErr)
			}
		})
	}
}
