package site

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"
)

// FileInfo records one built artifact.
type FileInfo struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

// Manifest summarizes a completed build. The content hash covers every file
// in path order, so two builds of the same inputs hash identically.
type Manifest struct {
	Theme       string        `json:"theme"`
	PageCount   int           `json:"page_count"`
	Files       []FileInfo    `json:"files"`
	TotalBytes  int64         `json:"total_bytes"`
	ContentHash string        `json:"content_hash"`
	Duration    time.Duration `json:"duration"`

	hashes map[string][32]byte
}

// NewManifest creates an empty manifest for a build.
func NewManifest(themeName string, pageCount int) *Manifest {
	return &Manifest{
		Theme:     themeName,
		PageCount: pageCount,
		hashes:    make(map[string][32]byte),
	}
}

// Add records a built file and its content.
func (m *Manifest) Add(path string, data []byte) {
	m.Files = append(m.Files, FileInfo{Path: path, Bytes: int64(len(data))})
	m.TotalBytes += int64(len(data))
	m.hashes[path] = sha256.Sum256(data)
}

// Finalize sorts the file list and computes the manifest content hash.
func (m *Manifest) Finalize(duration time.Duration) {
	sort.Slice(m.Files, func(i, j int) bool {
		return m.Files[i].Path < m.Files[j].Path
	})

	digest := sha256.New()
	for _, file := range m.Files {
		sum := m.hashes[file.Path]
		digest.Write([]byte(file.Path))
		digest.Write([]byte{0})
		digest.Write(sum[:])
	}
	m.ContentHash = hex.EncodeToString(digest.Sum(nil))
	m.Duration = duration
}
