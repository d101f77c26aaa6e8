// Package texts provides locale-keyed pools of reference texts.
package texts

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is the pool used when a requested locale has no texts.
const DefaultLocale = "en"

//go:embed pools/*.txt
var builtin embed.FS

// Pool is a read-only set of candidate reference texts keyed by locale.
type Pool struct {
	byLocale map[string][]string
}

// New builds a pool from the given texts. Locale keys are normalized and
// blank texts dropped.
func New(byLocale map[string][]string) *Pool {
	p := &Pool{byLocale: map[string][]string{}}
	for locale, list := range byLocale {
		p.add(locale, list)
	}
	return p
}

// Default returns the built-in pools.
func Default() *Pool {
	p, err := loadFS(builtin, "pools")
	if err != nil {
		panic(fmt.Sprintf("texts: built-in pools: %v", err))
	}
	return p
}

// Load returns the built-in pools overlaid with <locale>.txt files found in
// dir. A locale present in dir replaces the built-in texts for that locale.
// An empty dir or a missing directory yields the built-in pools.
func Load(dir string) (*Pool, error) {
	p := Default()
	if dir == "" {
		return p, nil
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("failed to stat texts dir: %w", err)
	}
	overlay, err := loadFS(os.DirFS(dir), ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load texts from %s: %w", dir, err)
	}
	for locale, list := range overlay.byLocale {
		p.byLocale[locale] = list
	}
	return p, nil
}

func loadFS(fsys fs.FS, dir string) (*Pool, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	p := &Pool{byLocale: map[string][]string{}}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".txt" {
			continue
		}
		f, err := fsys.Open(path.Join(dir, name))
		if err != nil {
			return nil, err
		}
		list, err := readTexts(f)
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		p.add(strings.TrimSuffix(name, ".txt"), list)
	}
	return p, nil
}

// readTexts reads one text per line. Blank lines and lines starting with
// '#' are skipped.
func readTexts(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Pool) add(locale string, list []string) {
	key := normalize(locale)
	if key == "" {
		return
	}
	for _, text := range list {
		text = strings.TrimSpace(text)
		if text != "" {
			p.byLocale[key] = append(p.byLocale[key], text)
		}
	}
}

// Locales returns the locales that have at least one text, sorted.
func (p *Pool) Locales() []string {
	out := make([]string, 0, len(p.byLocale))
	for locale, list := range p.byLocale {
		if len(list) > 0 {
			out = append(out, locale)
		}
	}
	sort.Strings(out)
	return out
}

// Resolve returns the pool key used for locale: the exact locale, then its
// base language, then DefaultLocale.
func (p *Pool) Resolve(locale string) string {
	key := normalize(locale)
	if len(p.byLocale[key]) > 0 {
		return key
	}
	if tag, err := language.Parse(key); err == nil {
		base, _ := tag.Base()
		if b := base.String(); len(p.byLocale[b]) > 0 {
			return b
		}
	}
	return DefaultLocale
}

// Texts returns a copy of the texts for locale after fallback.
func (p *Pool) Texts(locale string) []string {
	return append([]string(nil), p.byLocale[p.Resolve(locale)]...)
}

// Pick selects a text for locale uniformly at random. It returns "" when no
// text exists for the locale or the default locale.
func (p *Pool) Pick(locale string, rnd *rand.Rand) string {
	list := p.byLocale[p.Resolve(locale)]
	if len(list) == 0 {
		return ""
	}
	return list[rnd.Intn(len(list))]
}

func normalize(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}
