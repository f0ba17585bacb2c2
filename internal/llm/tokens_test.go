package llm

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const rankURL = "https://openaipublic.blob.core.windows.net/encodings/cl100k_base.tiktoken"

func rankFile(tokens ...string) []byte {
	var out []byte
	for i, tok := range tokens {
		out = append(out, fmt.Sprintf("%s %d\n", base64.StdEncoding.EncodeToString([]byte(tok)), i)...)
	}
	return out
}

func TestLocalBpeLoader_ByName(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cl100k_base.tiktoken"), rankFile("a", "b", "ab"), 0o644); err != nil {
		t.Fatal(err)
	}

	ranks, err := NewLocalBpeLoader(dir).LoadTiktokenBpe(rankURL)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(ranks) != 3 || ranks["ab"] != 2 {
		t.Errorf("Unexpected ranks: %v", ranks)
	}
}

func TestLocalBpeLoader_ByDownloadCacheKey(t *testing.T) {
	dir := t.TempDir()
	key := fmt.Sprintf("%x", sha1.Sum([]byte(rankURL)))
	if err := os.WriteFile(filepath.Join(dir, key), rankFile("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ranks, err := NewLocalBpeLoader(dir).LoadTiktokenBpe(rankURL)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ranks["x"] != 0 {
		t.Errorf("Unexpected ranks: %v", ranks)
	}
}

func TestLocalBpeLoader_MissingFileStaysOffline(t *testing.T) {
	if _, err := NewLocalBpeLoader(t.TempDir()).LoadTiktokenBpe(rankURL); err == nil {
		t.Error("Expected error for missing rank file")
	}
}

func TestLocalBpeLoader_Malformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cl100k_base.tiktoken"), []byte("no-rank-here\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLocalBpeLoader(dir).LoadTiktokenBpe(rankURL); err == nil {
		t.Error("Expected error for malformed rank file")
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("Expected 0 for empty text, got %d", got)
	}
	if got := EstimateTokens("Bayesian inference for sparse regression."); got <= 0 {
		t.Errorf("Expected a positive count, got %d", got)
	}
}
