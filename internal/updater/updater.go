// Package updater checks GitHub Releases for a newer Clockbar build.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/clockbar/clockbar/internal/buildinfo"
)

// DefaultReleasesURL is the latest-release endpoint of the GitHub API.
const DefaultReleasesURL = "https://api.github.com/repos/clockbar/clockbar/releases/latest"

// ReleaseInfo contains information about a GitHub release.
type ReleaseInfo struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// UpdateResult contains the result of an update check.
type UpdateResult struct {
	Available      bool
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
}

// Checker queries a releases endpoint.
type Checker struct {
	URL     string
	Client  *http.Client
	Current string
}

// NewChecker returns a checker for the running build.
func NewChecker() *Checker {
	return &Checker{
		URL:     DefaultReleasesURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Current: buildinfo.Version,
	}
}

// CheckForUpdate checks the default endpoint for a newer version.
func CheckForUpdate(ctx context.Context) (*UpdateResult, error) {
	return NewChecker().Check(ctx)
}

// Check queries the releases endpoint for a newer version.
func (c *Checker) Check(ctx context.Context) (*UpdateResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "clockbar/"+c.Current)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// No releases yet
		return &UpdateResult{CurrentVersion: c.Current}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var release ReleaseInfo
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}

	latestVersion := strings.TrimPrefix(release.TagName, "v")
	result := &UpdateResult{
		CurrentVersion: c.Current,
		LatestVersion:  latestVersion,
		ReleaseURL:     release.HTMLURL,
	}

	latest, err := ParseSemver(latestVersion)
	if err != nil {
		return nil, fmt.Errorf("parse latest version %q: %w", latestVersion, err)
	}
	current, err := ParseSemver(c.Current)
	if err != nil {
		// "dev" and other unparseable builds are always behind
		result.Available = true
		return result, nil
	}

	result.Available = current.LessThan(latest)
	return result, nil
}
