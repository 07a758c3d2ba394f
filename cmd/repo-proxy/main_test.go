package main

import (
	"reflect"
	"testing"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("REPO_PROXY_TEST_VALUE", "set")

	if got := getEnv("REPO_PROXY_TEST_VALUE", "default"); got != "set" {
		t.Errorf("getEnv = %q, want set", got)
	}
	if got := getEnv("REPO_PROXY_TEST_MISSING", "default"); got != "default" {
		t.Errorf("getEnv = %q, want default", got)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{input: "http://a", want: []string{"http://a"}},
		{input: "http://a, http://b", want: []string{"http://a", "http://b"}},
		{input: " ,http://a,, ", want: []string{"http://a"}},
		{input: "", want: nil},
	}

	for _, tt := range tests {
		if got := splitList(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
