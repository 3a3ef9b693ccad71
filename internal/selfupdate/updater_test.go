package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAsset(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         releaseAsset
		wantErr      string
	}{
		{"darwin", "amd64", releaseAsset{"triviaz_Darwin_all.tar.gz", formatTarGz, "triviaz"}, ""},
		{"darwin", "arm64", releaseAsset{"triviaz_Darwin_all.tar.gz", formatTarGz, "triviaz"}, ""},
		{"linux", "amd64", releaseAsset{"triviaz_Linux_x86_64.tar.gz", formatTarGz, "triviaz"}, ""},
		{"linux", "386", releaseAsset{"triviaz_Linux_i386.tar.gz", formatTarGz, "triviaz"}, ""},
		{"windows", "arm64", releaseAsset{"triviaz_Windows_arm64.zip", formatZip, "triviaz.exe"}, ""},
		{"freebsd", "amd64", releaseAsset{}, "operating system"},
		{"linux", "mips", releaseAsset{}, "architecture"},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, err := resolveAsset(tt.goos, tt.goarch)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChecksums(t *testing.T) {
	data := []byte("archive bytes")
	sum := sha256.Sum256(data)
	good := hex.EncodeToString(sum[:])

	manifest := fmt.Sprintf("%s  triviaz_Linux_x86_64.tar.gz\n\nmalformed line here\n%s  triviaz_Darwin_all.tar.gz\n",
		strings.ToUpper(good), strings.Repeat("0", 64))
	cs := parseChecksums([]byte(manifest))

	assert.Len(t, cs, 2)
	assert.NoError(t, cs.verify("triviaz_Linux_x86_64.tar.gz", data), "hex case is ignored")
	assert.ErrorIs(t, cs.verify("triviaz_Darwin_all.tar.gz", data), ErrChecksum)

	err := cs.verify("triviaz_Windows_x86_64.zip", data)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrChecksum)
	assert.Contains(t, err.Error(), "no checksum found")
}

func TestUnpack(t *testing.T) {
	content := []byte("#!/bin/sh\necho triviaz\n")

	t.Run("tar.gz", func(t *testing.T) {
		asset, err := resolveAsset("linux", "amd64")
		require.NoError(t, err)
		got, err := unpack(buildTarGz(t, "dist/triviaz", content), asset)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("zip", func(t *testing.T) {
		asset, err := resolveAsset("windows", "amd64")
		require.NoError(t, err)
		got, err := unpack(buildZip(t, "triviaz.exe", content), asset)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("binary missing", func(t *testing.T) {
		asset, err := resolveAsset("darwin", "arm64")
		require.NoError(t, err)
		_, err = unpack(buildTarGz(t, "README.md", content), asset)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found in archive")
	})

	t.Run("corrupt archive", func(t *testing.T) {
		asset, err := resolveAsset("linux", "arm64")
		require.NoError(t, err)
		_, err = unpack([]byte("not gzip"), asset)
		assert.Error(t, err)
	})
}

func TestReplaceExecutable(t *testing.T) {
	target := filepath.Join(t.TempDir(), "triviaz")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	require.NoError(t, replaceExecutable(target, []byte("new build")))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("new build"), got)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staging dir is removed")
}

func TestReplaceExecutable_MissingTarget(t *testing.T) {
	err := replaceExecutable(filepath.Join(t.TempDir(), "absent"), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat target")
}

// releaseHost serves a latest-release response for tag and the given
// download files under /abhisek/triviaz/releases/download/{tag}/.
func releaseHost(t *testing.T, tag string, files map[string][]byte) *httptest.Server {
	t.Helper()
	prefix := "/abhisek/triviaz/releases/download/" + tag + "/"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/abhisek/triviaz/releases/latest" {
			_, _ = fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/%s"}`, tag, tag)
			return
		}
		if data, ok := files[strings.TrimPrefix(r.URL.Path, prefix)]; ok && strings.HasPrefix(r.URL.Path, prefix) {
			_, _ = w.Write(data)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server
}

func checksumLine(name string, data []byte) []byte {
	sum := sha256.Sum256(data)
	return []byte(hex.EncodeToString(sum[:]) + "  " + name + "\n")
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	return log
}

func TestUpdate(t *testing.T) {
	const asset = "triviaz_Darwin_all.tar.gz"
	binary := []byte("triviaz v2 build")
	archive := buildTarGz(t, "triviaz", binary)

	newChecker := func(server *httptest.Server, execPath string) *Checker {
		return NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			WithLogger(quietLogger()),
			withExecPath(func() (string, error) { return execPath, nil }),
			withPlatform("darwin", "arm64"),
		)
	}

	t.Run("latest release", func(t *testing.T) {
		execPath := filepath.Join(t.TempDir(), "triviaz")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0o755))
		server := releaseHost(t, "v2.0.0", map[string][]byte{
			asset:         archive,
			checksumsFile: checksumLine(asset, archive),
		})

		var stages []string
		err := newChecker(server, execPath).Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)

		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, binary, got)
		assert.Equal(t, []string{"check", "download", "verify", "extract", "apply", "done"}, stages)
	})

	t.Run("explicit target skips the check", func(t *testing.T) {
		execPath := filepath.Join(t.TempDir(), "triviaz")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0o755))
		server := releaseHost(t, "v1.5.0", map[string][]byte{
			asset:         archive,
			checksumsFile: checksumLine(asset, archive),
		})

		var stages []string
		err := newChecker(server, execPath).Update(context.Background(),
			&UpdateInput{CurrentVersion: "v2.0.0", TargetVersion: "v1.5.0"},
			func(p UpdateProgress) { stages = append(stages, p.Stage) })
		require.NoError(t, err)
		assert.NotContains(t, stages, "check")
	})

	t.Run("dev build", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), &UpdateInput{CurrentVersion: DevVersion}, nil)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		server := releaseHost(t, "v1.0.0", nil)
		err := newChecker(server, "").Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch leaves binary alone", func(t *testing.T) {
		execPath := filepath.Join(t.TempDir(), "triviaz")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0o755))
		server := releaseHost(t, "v2.0.0", map[string][]byte{
			asset:         archive,
			checksumsFile: checksumLine(asset, []byte("something else")),
		})

		err := newChecker(server, execPath).Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrChecksum)

		got, readErr := os.ReadFile(execPath)
		require.NoError(t, readErr)
		assert.Equal(t, []byte("old"), got)
	})

	t.Run("download failure", func(t *testing.T) {
		server := releaseHost(t, "v2.0.0", nil)
		err := newChecker(server, "").Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})
}

func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     name,
		Size:     int64(len(content)),
		Mode:     0o755,
		Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func buildZip(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
