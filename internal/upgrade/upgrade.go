package upgrade

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	releaseURL = "https://api.github.com/repos/chupakbra/mmgroups/releases/latest"
	binaryName = "mmgroups"
)

// release is the part of a GitHub release the upgrader reads.
type release struct {
	Version string
	Assets  map[string]string // asset name -> download URL
}

// Upgrader replaces the running binary with the latest GitHub release.
type Upgrader struct {
	ReleaseURL string
	HTTP       *http.Client
	Out        io.Writer
	GOOS       string
	GOARCH     string
}

// New returns an Upgrader for the current platform.
func New(out io.Writer) *Upgrader {
	return &Upgrader{
		ReleaseURL: releaseURL,
		HTTP:       &http.Client{Timeout: 2 * time.Minute},
		Out:        out,
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}
}

// Run checks for the latest release and upgrades the current binary in place.
func (u *Upgrader) Run(ctx context.Context, currentVersion string) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to determine executable path: %w", err)
	}
	binaryPath, err := filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}

	fmt.Fprintln(u.Out, "Checking for updates...")
	rel, err := u.fetchLatest(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	if compareVersions(rel.Version, currentVersion) <= 0 {
		fmt.Fprintf(u.Out, "Already up to date (v%s)\n", currentVersion)
		return nil
	}
	fmt.Fprintf(u.Out, "Upgrading from %s to %s...\n", currentVersion, rel.Version)

	want, err := assetName(u.GOOS, u.GOARCH)
	if err != nil {
		return err
	}
	downloadURL, ok := rel.Assets[want]
	if !ok {
		return fmt.Errorf("no release asset found for %s/%s (expected %s)", u.GOOS, u.GOARCH, want)
	}

	// Download next to the binary so the final rename stays on one filesystem.
	if err := u.download(ctx, downloadURL, binaryPath); err != nil {
		return err
	}
	fmt.Fprintf(u.Out, "Updated %s to v%s\n", binaryName, rel.Version)
	return nil
}

func (u *Upgrader) fetchLatest(ctx context.Context) (*release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.ReleaseURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := u.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("failed to parse release info")
	}
	doc := gjson.ParseBytes(data)
	rel := &release{
		Version: strings.TrimPrefix(doc.Get("tag_name").String(), "v"),
		Assets:  map[string]string{},
	}
	doc.Get("assets").ForEach(func(_, a gjson.Result) bool {
		rel.Assets[a.Get("name").String()] = a.Get("browser_download_url").String()
		return true
	})
	return rel, nil
}

func (u *Upgrader) download(ctx context.Context, url, binaryPath string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(binaryPath), "."+binaryName+"-upgrade-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	fmt.Fprintln(u.Out, "Downloading...")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		tmpFile.Close()
		return err
	}
	resp, err := u.HTTP.Do(req)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to download update: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		tmpFile.Close()
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}
	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write update: %w", err)
	}
	tmpFile.Close()

	if err := os.Chmod(tmpPath, 0755); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, binaryPath); err != nil {
		return fmt.Errorf("failed to replace binary (try: sudo %s --upgrade): %w", binaryName, err)
	}
	return nil
}

// compareVersions compares two semver strings (without "v" prefix).
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func compareVersions(a, b string) int {
	ap := parseSemver(a)
	bp := parseSemver(b)
	for i := 0; i < 3; i++ {
		if ap[i] < bp[i] {
			return -1
		}
		if ap[i] > bp[i] {
			return 1
		}
	}
	return 0
}

// parseSemver splits a version string into [major, minor, patch].
// Missing or non-numeric segments default to 0; pre-release suffixes are ignored.
func parseSemver(v string) [3]int {
	var parts [3]int
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	for i, s := range strings.SplitN(v, ".", 3) {
		n, _ := strconv.Atoi(s)
		parts[i] = n
	}
	return parts
}

func assetName(goos, goarch string) (string, error) {
	switch goos + "/" + goarch {
	case "darwin/arm64":
		return binaryName + "-macos-arm64", nil
	case "darwin/amd64":
		return binaryName + "-macos-amd64", nil
	case "linux/amd64":
		return binaryName + "-linux-amd64", nil
	case "linux/arm64":
		return binaryName + "-linux-arm64", nil
	default:
		return "", fmt.Errorf("unsupported platform: %s/%s", goos, goarch)
	}
}
