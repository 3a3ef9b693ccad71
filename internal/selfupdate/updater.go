package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	binaryName    = "triviaz"
	checksumsFile = "checksums.txt"

	// maxDownload caps a single release file.
	maxDownload = 128 << 20
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

type UpdateInput struct {
	CurrentVersion string
	// TargetVersion is a release tag. Empty means the latest release.
	TargetVersion string
}

// UpdateProgress is reported once per stage: check, download, verify,
// extract, apply and done.
type UpdateProgress struct {
	Stage   string
	Message string
}

// Update installs the target release over the running binary. The archive
// is verified against the release's checksums.txt before anything is written.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if input.CurrentVersion == DevVersion {
		return ErrDevBuild
	}
	report := func(stage, msg string) {
		c.log.WithField("stage", stage).Debug(msg)
		if progress != nil {
			progress(UpdateProgress{Stage: stage, Message: msg})
		}
	}

	tag := input.TargetVersion
	if tag == "" {
		report("check", "Checking for latest version...")
		result, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !result.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = result.LatestVersion
	}

	asset, err := resolveAsset(c.goos, c.goarch)
	if err != nil {
		return err
	}
	log := c.log.WithFields(logrus.Fields{"tag": tag, "asset": asset.Name})

	report("download", fmt.Sprintf("Downloading %s...", tag))
	archive, err := c.fetch(ctx, c.releaseFileURL(tag, asset.Name))
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	report("verify", "Verifying checksum...")
	manifest, err := c.fetch(ctx, c.releaseFileURL(tag, checksumsFile))
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	if err := parseChecksums(manifest).verify(asset.Name, archive); err != nil {
		log.WithError(err).Warn("release archive rejected")
		return err
	}

	report("extract", "Extracting binary...")
	binary, err := unpack(archive, asset)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	report("apply", "Applying update...")
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	if err := replaceExecutable(target, binary); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	log.WithField("path", target).Info("binary updated")
	report("done", fmt.Sprintf("Updated to %s", tag))
	return nil
}

func (c *Checker) releaseFileURL(tag, file string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s",
		strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag, file)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDownload {
		return nil, fmt.Errorf("%s exceeds %d bytes", url, maxDownload)
	}
	return data, nil
}

type archiveFormat int

const (
	formatTarGz archiveFormat = iota
	formatZip
)

// releaseAsset names the archive published for one platform and the file
// to take out of it.
type releaseAsset struct {
	Name   string
	Format archiveFormat
	Binary string
}

var releaseArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

func resolveAsset(goos, goarch string) (releaseAsset, error) {
	if goos == "darwin" {
		// One universal archive covers every mac.
		return releaseAsset{Name: binaryName + "_Darwin_all.tar.gz", Format: formatTarGz, Binary: binaryName}, nil
	}

	var (
		label  string
		format archiveFormat
		ext    string
		binary = binaryName
	)
	switch goos {
	case "linux":
		label, format, ext = "Linux", formatTarGz, ".tar.gz"
	case "windows":
		label, format, ext = "Windows", formatZip, ".zip"
		binary += ".exe"
	default:
		return releaseAsset{}, fmt.Errorf("unsupported operating system: %s", goos)
	}

	arch, ok := releaseArch[goarch]
	if !ok {
		return releaseAsset{}, fmt.Errorf("unsupported architecture: %s", goarch)
	}
	return releaseAsset{
		Name:   fmt.Sprintf("%s_%s_%s%s", binaryName, label, arch, ext),
		Format: format,
		Binary: binary,
	}, nil
}

// checksums maps a file name to its hex SHA-256, as listed in checksums.txt.
type checksums map[string]string

func parseChecksums(data []byte) checksums {
	cs := make(checksums)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		cs[fields[1]] = strings.ToLower(fields[0])
	}
	return cs
}

func (cs checksums) verify(name string, data []byte) error {
	want, ok := cs[name]
	if !ok {
		return fmt.Errorf("no checksum found for %s in %s", name, checksumsFile)
	}
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != want {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, want, got)
	}
	return nil
}

func unpack(archive []byte, asset releaseAsset) ([]byte, error) {
	switch asset.Format {
	case formatZip:
		return readZip(archive, asset.Binary)
	default:
		return readTarGz(archive, asset.Binary)
	}
}

func readTarGz(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("binary %q not found in archive", name)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(io.LimitReader(tr, maxDownload))
		}
	}
}

func readZip(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if filepath.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(io.LimitReader(rc, maxDownload))
	}
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

// replaceExecutable writes data next to target and renames it into place,
// keeping target's permissions. The staged copy is re-read and compared
// with data before the rename.
func replaceExecutable(target string, data []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	stageDir, err := os.MkdirTemp(filepath.Dir(target), "."+binaryName+"-update-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(stageDir) }()

	staged := filepath.Join(stageDir, binaryName+"-new")
	if err := os.WriteFile(staged, data, 0o600); err != nil {
		return fmt.Errorf("write staged binary: %w", err)
	}

	written, err := os.ReadFile(staged)
	if err != nil {
		return fmt.Errorf("re-read staged binary: %w", err)
	}
	if sha256.Sum256(written) != sha256.Sum256(data) {
		return fmt.Errorf("%w: staged binary changed after write", ErrChecksum)
	}

	if err := os.Rename(staged, target); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	if err := os.Chmod(target, info.Mode()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return nil
}
