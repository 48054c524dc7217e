package common

import (
	"context"
	"testing"
)

func TestGetAccountFromArgs(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		args     map[string]interface{}
		expected string
	}{
		{
			name:     "explicit account",
			args:     map[string]interface{}{"account": "work"},
			expected: "work",
		},
		{
			name:     "missing account",
			args:     map[string]interface{}{},
			expected: "default",
		},
		{
			name:     "empty account",
			args:     map[string]interface{}{"account": ""},
			expected: "default",
		},
		{
			name:     "non-string account",
			args:     map[string]interface{}{"account": 42},
			expected: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetAccountFromArgs(ctx, tt.args)
			if result != tt.expected {
				t.Errorf("GetAccountFromArgs() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestGetSessionID_NoSession(t *testing.T) {
	if id := GetSessionID(context.Background()); id != "" {
		t.Errorf("expected empty session ID without transport session, got %q", id)
	}
}
