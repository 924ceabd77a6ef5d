// Package slug builds URL-safe identifiers from human-readable titles and
// assigns them uniquely within a table.
package slug

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	gosimple "github.com/gosimple/slug"
)

// DefaultFallback is used when neither the title nor the caller's fallback
// token produce a usable slug.
const DefaultFallback = "item"

// Exists reports whether candidate is already used by a record other than
// the one being saved.
type Exists func(candidate string) bool

// ExistsContext is the storage-backed form of Exists.
type ExistsContext func(ctx context.Context, candidate string) (bool, error)

var (
	unsafeRun = regexp.MustCompile(`[^a-z0-9]+`)
)

// russian maps Cyrillic letters to the Latin spelling used in existing
// slugs ("ekskursiya-v-bratstvo-losey", "begovye-vstrechi").
var russian = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
}

// Normalize converts title into a lowercase ASCII token: Cyrillic is
// transliterated, other scripts and accents go through unidecode, and every
// run of characters outside [a-z0-9] becomes a single "-". The result may be
// empty.
func Normalize(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if latin, ok := russian[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}

	s := gosimple.Make(b.String())
	s = unsafeRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Base returns the normalized title, or the normalized fallback when the
// title yields nothing. It never returns an empty string.
func Base(title, fallback string) string {
	if s := Normalize(title); s != "" {
		return s
	}
	if s := Normalize(fallback); s != "" {
		return s
	}
	return DefaultFallback
}

// Assign returns the first candidate among base, base-1, base-2, ... for
// which exists reports false.
func Assign(title, fallback string, exists Exists) string {
	base := Base(title, fallback)
	candidate := base
	for n := 1; exists(candidate); n++ {
		candidate = base + "-" + strconv.Itoa(n)
	}
	return candidate
}

// AssignContext is Assign over a storage-backed predicate. The only error it
// returns is one produced by exists (or ctx being done between probes).
func AssignContext(ctx context.Context, title, fallback string, exists ExistsContext) (string, error) {
	base := Base(title, fallback)
	candidate := base
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}
