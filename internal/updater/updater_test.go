package updater

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseSemver(t *testing.T) {
	tests := []struct {
		in      string
		want    Semver
		wantErr bool
	}{
		{in: "1.2.3", want: Semver{1, 2, 3, ""}},
		{in: "v0.10.0", want: Semver{0, 10, 0, ""}},
		{in: "2.0.0-beta.1", want: Semver{2, 0, 0, "beta.1"}},
		{in: "1.0.0+build.7", want: Semver{1, 0, 0, ""}},
		{in: "dev", wantErr: true},
		{in: "1.2", wantErr: true},
		{in: "1.x.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSemver(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSemver(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSemver(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSemverLessThan(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.0.0", "1.0.1", true},
		{"1.2.0", "1.10.0", true},
		{"2.0.0", "1.9.9", false},
		{"1.0.0", "1.0.0", false},
		{"1.0.0-rc.1", "1.0.0", true},
		{"1.0.0", "1.0.0-rc.1", false},
		{"1.0.0-alpha", "1.0.0-beta", true},
	}

	for _, tt := range tests {
		a, _ := ParseSemver(tt.a)
		b, _ := ParseSemver(tt.b)
		if got := a.LessThan(b); got != tt.want {
			t.Errorf("%s < %s = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func releaseServer(t *testing.T, status int, tag string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		if status == http.StatusOK {
			fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/%s"}`, tag, tag)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name          string
		current       string
		status        int
		tag           string
		wantAvailable bool
		wantErr       bool
	}{
		{name: "newer release", current: "0.1.0", status: http.StatusOK, tag: "v0.2.0", wantAvailable: true},
		{name: "up to date", current: "0.2.0", status: http.StatusOK, tag: "v0.2.0"},
		{name: "dev build", current: "dev", status: http.StatusOK, tag: "v0.2.0", wantAvailable: true},
		{name: "no releases", current: "0.1.0", status: http.StatusNotFound},
		{name: "server error", current: "0.1.0", status: http.StatusInternalServerError, wantErr: true},
		{name: "bad tag", current: "0.1.0", status: http.StatusOK, tag: "nightly", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := releaseServer(t, tt.status, tt.tag)
			c := &Checker{URL: srv.URL, Client: srv.Client(), Current: tt.current}

			got, err := c.Check(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Available != tt.wantAvailable {
				t.Errorf("Available = %v, want %v", got.Available, tt.wantAvailable)
			}
			if got.CurrentVersion != tt.current {
				t.Errorf("CurrentVersion = %q, want %q", got.CurrentVersion, tt.current)
			}
		})
	}
}
