package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    any
		wantErr bool
	}{
		{name: "object", data: `{"a": 1}`, want: map[string]any{"a": 1.0}},
		{name: "array", data: `[1, "x"]`, want: []any{1.0, "x"}},
		{name: "surrounding whitespace", data: " \n{\"a\": 1}\n\t", want: map[string]any{"a": 1.0}},
		{name: "trailing brace", data: `{"a":1}}`, wantErr: true},
		{name: "trailing bracket", data: `[1]]`, wantErr: true},
		{name: "second value", data: `{"a":1}{"b":2}`, wantErr: true},
		{name: "trailing garbage", data: `{"a":1} x`, wantErr: true},
		{name: "truncated", data: `{"a":`, wantErr: true},
		{name: "empty", data: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSON([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
