// package formatter renders grouped translation entries into .tpl/.ini export files and parses them back
package formatter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/shared"
)

// DateLayout is the Export Date header format (YYYY-MM-DD HH:MM:SS)
const DateLayout = "2006-01-02 15:04:05"

const (
	headerSite     = "# Site: "
	headerLanguage = "# Language: "
	headerDate     = "# Export Date: "
	headerTotal    = "# Total Keys: "
	headerFormat   = "# Format: key=value"
	entryMarker    = "# Key: "
)

var (
	escaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)
	unescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\r`, "\r")
)

// Entry is one key/value line in a rendered file
type Entry struct {
	Key   string
	Value string
}

// Locale returns the lower-upper duplication of a language code, e.g. EN -> en-EN
func Locale(lang models.Language) string {
	code := string(lang)
	return strings.ToLower(code) + "-" + strings.ToUpper(code)
}

// Extension returns the file extension for a key kind, including the dot
func Extension(kind models.KeyType) string {
	switch kind {
	case models.Template:
		return ".tpl"
	case models.Initialize:
		return ".ini"
	default:
		return ""
	}
}

// FileName returns "<locale><ext>"
func FileName(lang models.Language, kind models.KeyType) string {
	return Locale(lang) + Extension(kind)
}

// EntryPath returns the archive path "<site>/<locale><ext>"
func EntryPath(site string, lang models.Language, kind models.KeyType) string {
	return site + "/" + FileName(lang, kind)
}

// EscapeValue makes value safe to write on a single key=value line
func EscapeValue(value string) string {
	return escaper.Replace(value)
}

// UnescapeValue reverses [EscapeValue]
func UnescapeValue(value string) string {
	return unescaper.Replace(value)
}

// Render produces the file contents for one (site, language, kind) group.
//
// Output depends only on its arguments: entries are written in the given order and ts is formatted with [DateLayout].
func Render(site string, lang models.Language, kind models.KeyType, entries []Entry, ts time.Time) []byte {
	var buf bytes.Buffer

	buf.WriteString(headerSite + site + "\n")
	buf.WriteString(headerLanguage + Locale(lang) + "\n")
	buf.WriteString(headerDate + ts.Format(DateLayout) + "\n")
	buf.WriteString(headerTotal + strconv.Itoa(len(entries)) + "\n")
	buf.WriteString(headerFormat + "\n")
	buf.WriteString("#\n\n")

	for _, e := range entries {
		buf.WriteString(entryMarker + e.Key + "\n")
		buf.WriteString(e.Key + "=" + EscapeValue(e.Value) + "\n\n")
	}

	return buf.Bytes()
}

// WriteFile renders the group to w and returns the number of bytes written
func WriteFile(w io.Writer, site string, lang models.Language, kind models.KeyType, entries []Entry, ts time.Time) (int64, error) {
	n, err := w.Write(Render(site, lang, kind, entries, ts))
	if err != nil {
		return int64(n), fmt.Errorf("failed to write %s: %w", EntryPath(site, lang, kind), err)
	}
	return int64(n), nil
}

// ParsedFile is the header and entries read back from a rendered file
type ParsedFile struct {
	Site       string
	Locale     string
	ExportDate string
	TotalKeys  int
	Entries    []Entry
}

// ParseFile reads a rendered file, checking that the Total Keys header matches the entry count
func ParseFile(data []byte) (*ParsedFile, error) {
	parsed := &ParsedFile{Entries: []Entry{}}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var pending string
	var expecting bool
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")

		if expecting {
			prefix := pending + "="
			if !strings.HasPrefix(text, prefix) {
				return nil, fmt.Errorf("%w: line %d: expected %q", shared.ErrMalformedFile, line, prefix)
			}
			parsed.Entries = append(parsed.Entries, Entry{Key: pending, Value: UnescapeValue(text[len(prefix):])})
			expecting = false
			continue
		}

		switch {
		case text == "" || text == "#" || text == headerFormat:
		case strings.HasPrefix(text, entryMarker):
			pending = strings.TrimPrefix(text, entryMarker)
			expecting = true
		case strings.HasPrefix(text, headerSite):
			parsed.Site = strings.TrimPrefix(text, headerSite)
		case strings.HasPrefix(text, headerLanguage):
			parsed.Locale = strings.TrimPrefix(text, headerLanguage)
		case strings.HasPrefix(text, headerDate):
			parsed.ExportDate = strings.TrimPrefix(text, headerDate)
		case strings.HasPrefix(text, headerTotal):
			n, err := strconv.Atoi(strings.TrimPrefix(text, headerTotal))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad key count: %v", shared.ErrMalformedFile, line, err)
			}
			parsed.TotalKeys = n
		default:
			return nil, fmt.Errorf("%w: line %d: unexpected content", shared.ErrMalformedFile, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedFile, err)
	}
	if expecting {
		return nil, fmt.Errorf("%w: missing value for key %q", shared.ErrMalformedFile, pending)
	}
	if parsed.TotalKeys != len(parsed.Entries) {
		return nil, fmt.Errorf("%w: header declares %d keys, found %d", shared.ErrMalformedFile, parsed.TotalKeys, len(parsed.Entries))
	}
	return parsed, nil
}

// ParseEntries returns only the entries of a rendered file
func ParseEntries(data []byte) ([]Entry, error) {
	parsed, err := ParseFile(data)
	if err != nil {
		return nil, err
	}
	return parsed.Entries, nil
}
