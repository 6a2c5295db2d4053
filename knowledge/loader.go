package knowledge

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// jsonlRecord mirrors one corpus line. Tags may be a comma-separated string
// or a JSON list; both forms appear in exported article dumps.
type jsonlRecord struct {
	Title   string          `json:"title"`
	Content string          `json:"content"`
	Tags    json.RawMessage `json:"tags"`
}

// LoadJSONL reads a one-record-per-line corpus file and returns entries
// ready for Index.Load. Entry ids are namespaced "<account>-<n>" with n
// starting at 1; the file path becomes the entry source.
func LoadJSONL(path, account string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %q: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadJSONL(f, account, path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %q: %w", path, err)
	}
	return entries, nil
}

// ReadJSONL parses JSONL corpus records from r. The source string is
// stamped on every entry.
func ReadJSONL(r io.Reader, account, source string) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var rec jsonlRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		id := fmt.Sprintf("%s-%d", account, len(entries)+1)
		entries = append(entries, NewEntry(id, rec.Title, rec.Content, source, parseTags(rec.Tags)))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseTags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.ReplaceAll(s, " ", "")
		if s == "" {
			return nil
		}
		return strings.Split(s, ",")
	}
	return nil
}
