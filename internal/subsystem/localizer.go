package subsystem

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Localizer is the language catalog and the active language. It satisfies
// settings.LanguageAdapter.
type Localizer struct {
	mu      sync.Mutex
	tags    []language.Tag
	matcher language.Matcher
	locale  string
	current int
	logger  *log.Logger
}

// NewLocalizer builds a catalog from BCP 47 codes. locale is the user's
// preferred locale (e.g. "ko_KR.UTF-8"); empty means read it from the
// environment.
func NewLocalizer(codes []string, locale string, logger *log.Logger) (*Localizer, error) {
	if len(codes) == 0 {
		return nil, errors.New("language catalog is empty")
	}
	tags := make([]language.Tag, 0, len(codes))
	seen := make(map[language.Tag]bool, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(strings.TrimSpace(code))
		if err != nil {
			return nil, fmt.Errorf("language %q: %w", code, err)
		}
		if seen[tag] {
			return nil, fmt.Errorf("language %q listed twice", code)
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	if locale == "" {
		locale = SystemLocale()
	}
	return &Localizer{
		tags:    tags,
		matcher: language.NewMatcher(tags),
		locale:  locale,
		current: -1,
		logger:  discard(logger).WithPrefix("localizer"),
	}, nil
}

// SystemLocale returns the first locale set in LC_ALL, LC_MESSAGES or LANG.
func SystemLocale() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// normalizeLocale turns POSIX locale names like "pt_BR.UTF-8@euro" into
// BCP 47 ("pt-BR").
func normalizeLocale(s string) string {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}

// Size returns the number of catalog entries.
func (l *Localizer) Size() int {
	return len(l.tags)
}

// Default returns the catalog entry that best matches the user's locale, or
// the first entry when nothing matches.
func (l *Localizer) Default() int {
	tag, err := language.Parse(normalizeLocale(l.locale))
	if err != nil {
		return 0
	}
	_, idx, conf := l.matcher.Match(tag)
	if conf == language.No {
		return 0
	}
	return idx
}

// Apply switches the active language.
func (l *Localizer) Apply(idx int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx < 0 || idx >= len(l.tags) {
		l.logger.Warn("ignoring language outside catalog", "index", idx)
		return
	}
	l.current = idx
	l.logger.Debug("language", "index", idx, "tag", l.tags[idx])
}

// Current returns the active language index, or -1 before the first Apply.
func (l *Localizer) Current() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Next returns the entry after idx, wrapping to the first.
func (l *Localizer) Next(idx int) int {
	if idx < 0 || idx >= len(l.tags)-1 {
		return 0
	}
	return idx + 1
}

// Tag returns the language tag at idx.
func (l *Localizer) Tag(idx int) (language.Tag, bool) {
	if idx < 0 || idx >= len(l.tags) {
		return language.Und, false
	}
	return l.tags[idx], true
}

// Index finds the catalog entry for a code such as "ko" or "zh-Hans".
func (l *Localizer) Index(code string) (int, bool) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return 0, false
	}
	for i, t := range l.tags {
		if t == tag {
			return i, true
		}
	}
	return 0, false
}

// Name returns the language's name in its own language, e.g. "한국어".
func (l *Localizer) Name(idx int) string {
	tag, ok := l.Tag(idx)
	if !ok {
		return fmt.Sprintf("#%d", idx)
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return tag.String()
}
