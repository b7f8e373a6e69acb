package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLimit(t *testing.T) {

	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"10", 10},
		{"1", 1},
		{"0", 0},
		{"-5", 0},
		{"abc", 0},
		{"10.5", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLimit(tt.in), "limit %q", tt.in)
	}
}
