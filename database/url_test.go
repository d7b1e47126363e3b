package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructDatabaseURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		database string
		want     string
	}{
		{
			name:     "no database name keeps base url",
			baseURL:  "postgres://mew:secret@db:5432/mew?sslmode=require",
			database: "",
			want:     "postgres://mew:secret@db:5432/mew?sslmode=require",
		},
		{
			name:     "appends database and sslmode",
			baseURL:  "postgres://mew:secret@db:5432",
			database: "mew",
			want:     "postgres://mew:secret@db:5432/mew?sslmode=disable",
		},
		{
			name:     "trailing slash is trimmed",
			baseURL:  "postgres://mew:secret@db:5432/",
			database: "mew",
			want:     "postgres://mew:secret@db:5432/mew?sslmode=disable",
		},
		{
			name:     "existing query parameters are kept",
			baseURL:  "postgres://mew:secret@db:5432?connect_timeout=5",
			database: "mew",
			want:     "postgres://mew:secret@db:5432/mew?connect_timeout=5&sslmode=disable",
		},
		{
			name:     "explicit sslmode wins",
			baseURL:  "postgres://mew:secret@db:5432?sslmode=verify-full",
			database: "mew",
			want:     "postgres://mew:secret@db:5432/mew?sslmode=verify-full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConstructDatabaseURL(tt.baseURL, tt.database))
		})
	}
}
