package envconfig

import (
	"testing"
)

func TestHost(t *testing.T) {
	tests := []struct {
		value  string
		scheme string
		host   string
	}{
		{"", "https", "api.blazee.io"},
		{"api.blazee.io", "https", "api.blazee.io"},
		{"https://api.blazee.io", "https", "api.blazee.io"},
		{"http://localhost:8080", "http", "localhost:8080"},
		{"  https://api.blazee.io  ", "https", "api.blazee.io"},
		{`"https://api.blazee.io"`, "https", "api.blazee.io"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("BLAZEE_HOST", tt.value)

			u := Host()
			if u.Scheme != tt.scheme {
				t.Errorf("scheme: got %q, want %q", u.Scheme, tt.scheme)
			}
			if u.Host != tt.host {
				t.Errorf("host: got %q, want %q", u.Host, tt.host)
			}
		})
	}
}

func TestVar(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{`"quoted"`, "quoted"},
		{"'quoted'", "quoted"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("BLAZEE_API_KEY", tt.value)
			if got := APIKey(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAsMap(t *testing.T) {
	t.Setenv("BLAZEE_API_KEY", "secret")
	t.Setenv("BLAZEE_SITE_PACKAGES", "/opt/site-packages")

	vars := AsMap()
	if got := vars["BLAZEE_API_KEY"].Value; got != "secret" {
		t.Errorf("BLAZEE_API_KEY: got %v", got)
	}
	if got := vars["BLAZEE_SITE_PACKAGES"].Value; got != "/opt/site-packages" {
		t.Errorf("BLAZEE_SITE_PACKAGES: got %v", got)
	}
	for name, v := range vars {
		if v.Description == "" {
			t.Errorf("%s has no description", name)
		}
	}
}
