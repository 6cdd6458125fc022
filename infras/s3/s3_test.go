package s3_test

import (
	"testing"

	"tablebook/infras/s3"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeyFromURL(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		url    string
		want   string
	}{
		{
			name:   "url under public domain",
			domain: "https://cdn.example.com",
			url:    "https://cdn.example.com/restaurant/abc.png",
			want:   "restaurant/abc.png",
		},
		{
			name:   "domain with trailing slash",
			domain: "https://cdn.example.com/",
			url:    "https://cdn.example.com/restaurant/abc.png",
			want:   "restaurant/abc.png",
		},
		{
			name:   "foreign url",
			domain: "https://cdn.example.com",
			url:    "https://other.example.com/restaurant/abc.png",
			want:   "",
		},
		{
			name:   "empty domain",
			domain: "",
			url:    "/restaurant/abc.png",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s3.ObjectKeyFromURL(tt.domain, tt.url))
		})
	}
}
