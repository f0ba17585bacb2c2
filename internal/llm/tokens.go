package llm

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// EstimateTokens counts tokens with the cl100k_base encoding, falling back
// to ~4 characters per token when the encoding is not available locally
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	encOnce.Do(func() {
		tiktoken.SetBpeLoader(NewLocalBpeLoader(""))
		e, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			enc = e
		}
	})

	if enc == nil {
		return (len(text) + 3) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// LocalBpeLoader resolves tiktoken rank files from a directory and never
// touches the network. A file is found under its own name
// (cl100k_base.tiktoken) or under the key tiktoken's download cache uses.
type LocalBpeLoader struct {
	dir string
}

// NewLocalBpeLoader creates a loader over dir. An empty dir means
// $TIKTOKEN_CACHE_DIR, then $DATA_GYM_CACHE_DIR, then the temp data-gym-cache.
func NewLocalBpeLoader(dir string) *LocalBpeLoader {
	if dir == "" {
		dir = os.Getenv("TIKTOKEN_CACHE_DIR")
	}
	if dir == "" {
		dir = os.Getenv("DATA_GYM_CACHE_DIR")
	}
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "data-gym-cache")
	}
	return &LocalBpeLoader{dir: dir}
}

// LoadTiktokenBpe implements tiktoken.BpeLoader
func (l *LocalBpeLoader) LoadTiktokenBpe(file string) (map[string]int, error) {
	candidates := []string{
		filepath.Join(l.dir, path.Base(file)),
		filepath.Join(l.dir, fmt.Sprintf("%x", sha1.Sum([]byte(file)))),
	}
	for _, c := range candidates {
		data, err := os.ReadFile(c)
		if err != nil {
			continue
		}
		return parseBpeRanks(data)
	}
	return nil, fmt.Errorf("no local rank file for %s in %s", path.Base(file), l.dir)
}

func parseBpeRanks(data []byte) (map[string]int, error) {
	ranks := make(map[string]int)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		tok, rank, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("malformed rank line %q", line)
		}
		token, err := base64.StdEncoding.DecodeString(tok)
		if err != nil {
			return nil, fmt.Errorf("decode token: %w", err)
		}
		n, err := strconv.Atoi(rank)
		if err != nil {
			return nil, fmt.Errorf("parse rank: %w", err)
		}
		ranks[string(token)] = n
	}
	return ranks, sc.Err()
}

func promptText(messages []Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n")
}
