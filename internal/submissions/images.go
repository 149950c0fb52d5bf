package submissions

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ImageTransfer is the compress-then-upload capability. Stage writes
// raw incoming image data to locally-addressable storage and returns a
// local ref; CompressAndUpload turns a staged ref into a stable remote
// ref. Compression internals belong to the implementation.
type ImageTransfer interface {
	Stage(userID, submissionID string, index int, data string) (string, error)
	CompressAndUpload(ctx context.Context, localRef, userID, submissionID string, index int) (string, error)
}

// FileSystemImageStore stages raw uploads under a scratch directory and
// publishes them under the statically served images root.
type FileSystemImageStore struct {
	stagingRoot string
	publicRoot  string
	baseURL     string
}

func NewFileSystemImageStore(stagingRoot, publicRoot, baseURL string) *FileSystemImageStore {
	if stagingRoot == "" {
		stagingRoot = filepath.Join("internal", "images", "staging")
	}
	if publicRoot == "" {
		publicRoot = filepath.Join("internal", "images")
	}
	return &FileSystemImageStore{stagingRoot: stagingRoot, publicRoot: publicRoot, baseURL: baseURL}
}

// Stage decodes a base64 data URL and writes it under the staging root.
// The returned path is the local ref carried by queued submissions.
func (s *FileSystemImageStore) Stage(userID, submissionID string, index int, data string) (string, error) {
	// Strip data URL prefix if present (e.g., "data:image/png;base64,")
	if idx := strings.Index(data, ","); idx >= 0 {
		data = data[idx+1:]
	}
	imageData, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 image: %w", err)
	}

	dir := filepath.Join(s.stagingRoot, userID, submissionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%d%s", index, detectImageExt(imageData)))
	if err := os.WriteFile(path, imageData, 0644); err != nil {
		return "", fmt.Errorf("failed to write staged image: %w", err)
	}
	return path, nil
}

// CompressAndUpload moves a staged image into the public images tree
// and returns the URL the static file server exposes it under.
func (s *FileSystemImageStore) CompressAndUpload(ctx context.Context, localRef, userID, submissionID string, index int) (string, error) {
	imageData, err := os.ReadFile(localRef)
	if err != nil {
		return "", fmt.Errorf("failed to read staged image: %w", err)
	}

	dir := filepath.Join(s.publicRoot, userID, "submissions", submissionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create submission image directory: %w", err)
	}

	filename := fmt.Sprintf("%d%s", index, detectImageExt(imageData))
	if err := os.WriteFile(filepath.Join(dir, filename), imageData, 0644); err != nil {
		return "", fmt.Errorf("failed to write submission image: %w", err)
	}

	relativeURL := fmt.Sprintf("/images/%s/submissions/%s/%s", userID, submissionID, filename)
	if s.baseURL != "" {
		return s.baseURL + relativeURL, nil
	}
	return relativeURL, nil
}

// detectImageExt sniffs the file extension from magic bytes, defaulting
// to .jpg.
func detectImageExt(imageData []byte) string {
	if len(imageData) < 4 {
		return ".jpg"
	}
	switch {
	case imageData[0] == 0xFF && imageData[1] == 0xD8 && imageData[2] == 0xFF:
		return ".jpg"
	case imageData[0] == 0x89 && imageData[1] == 0x50 && imageData[2] == 0x4E && imageData[3] == 0x47:
		return ".png"
	case imageData[0] == 0x47 && imageData[1] == 0x49 && imageData[2] == 0x46:
		return ".gif"
	case imageData[0] == 0x52 && imageData[1] == 0x49 && imageData[2] == 0x46 && imageData[3] == 0x46:
		return ".webp"
	default:
		return ".jpg"
	}
}

// SimulatedImageStore keeps everything in memory for the simulated
// environment and tests.
type SimulatedImageStore struct {
	mu     sync.Mutex
	staged map[string][]byte
}

func NewSimulatedImageStore() *SimulatedImageStore {
	return &SimulatedImageStore{staged: make(map[string][]byte)}
}

func (s *SimulatedImageStore) Stage(userID, submissionID string, index int, data string) (string, error) {
	if idx := strings.Index(data, ","); idx >= 0 {
		data = data[idx+1:]
	}
	imageData, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 image: %w", err)
	}
	ref := fmt.Sprintf("sim://%s/%s/%d", userID, submissionID, index)
	s.mu.Lock()
	s.staged[ref] = imageData
	s.mu.Unlock()
	return ref, nil
}

func (s *SimulatedImageStore) CompressAndUpload(ctx context.Context, localRef, userID, submissionID string, index int) (string, error) {
	s.mu.Lock()
	_, ok := s.staged[localRef]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("no staged image for ref %s", localRef)
	}
	return fmt.Sprintf("https://sim.invalid/images/%s/submissions/%s/%d.jpg", userID, submissionID, index), nil
}
