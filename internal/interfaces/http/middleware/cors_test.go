// internal/interfaces/http/middleware/cors_test.go
package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"exact match", "http://localhost:3000", []string{"http://localhost:3000"}, true},
		{"wildcard matches anything", "https://anywhere.test", []string{"*"}, true},
		{"not listed", "https://other.test", []string{"http://localhost:3000"}, false},
		{"subdomain wildcard", "https://app.example.com", []string{"*.example.com"}, true},
		{"wildcard excludes bare domain", "https://example.com", []string{"*.example.com"}, false},
		{"wildcard excludes lookalike", "https://evilexample.com", []string{"*.example.com"}, false},
		{"empty list", "https://app.example.com", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, originAllowed(tt.origin, tt.allowed))
		})
	}
}
