// Package verseref extracts Bible verse references from natural language.
//
// Input like "what does matt 7:7 mean" resolves to the canonical
// reference "Matthew 7:7". Book names may be abbreviated using the
// common short forms (gen, ps, matt, 1 cor, ...).
package verseref

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Reference is a parsed verse reference such as "John 3:16", or a verse
// range such as "John 3:16-17".
type Reference struct {
	Book     string
	Chapter  int
	Verse    int
	VerseEnd int // 0 unless the reference names a range
}

// String renders the reference in canonical form, e.g. "Matthew 7:7".
func (r Reference) String() string {
	if r.VerseEnd > 0 {
		return fmt.Sprintf("%s %d:%d-%d", r.Book, r.Chapter, r.Verse, r.VerseEnd)
	}
	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
}

// book pairs a canonical book name with the spellings users actually type.
type book struct {
	name    string
	aliases []string
}

// books is ordered: when an alias is ambiguous ("1t" is both
// 1 Thessalonians and 1 Timothy in common usage) the earlier entry wins.
var books = []book{
	// Old Testament
	{"Genesis", []string{"genesis", "gen", "ge", "gn"}},
	{"Exodus", []string{"exodus", "exod", "ex", "exo"}},
	{"Leviticus", []string{"leviticus", "lev", "le", "lv"}},
	{"Numbers", []string{"numbers", "num", "nu", "nm", "nb"}},
	{"Deuteronomy", []string{"deuteronomy", "deut", "dt"}},
	{"Joshua", []string{"joshua", "josh", "jos", "jsh"}},
	{"Judges", []string{"judges", "judg", "jdg", "jg", "jdgs"}},
	{"Ruth", []string{"ruth", "rth", "ru"}},
	{"1 Samuel", []string{"1 samuel", "1 sam", "1sa", "1s"}},
	{"2 Samuel", []string{"2 samuel", "2 sam", "2sa", "2s"}},
	{"1 Kings", []string{"1 kings", "1 kgs", "1ki", "1k"}},
	{"2 Kings", []string{"2 kings", "2 kgs", "2ki", "2k"}},
	{"Psalms", []string{"psalms", "psalm", "ps", "pslm", "psa", "psm", "pss"}},
	{"Proverbs", []string{"proverbs", "prov", "pro", "prv", "pr"}},
	{"Isaiah", []string{"isaiah", "isa", "is"}},
	{"Jeremiah", []string{"jeremiah", "jer", "je", "jr"}},

	// New Testament
	{"Matthew", []string{"matthew", "matt", "mat", "mt"}},
	{"Mark", []string{"mark", "mrk", "mar", "mk", "mr"}},
	{"Luke", []string{"luke", "luk", "lk"}},
	{"John", []string{"john", "jhn", "joh", "jn"}},
	{"Acts", []string{"acts", "act", "ac"}},
	{"Romans", []string{"romans", "rom", "ro", "rm"}},
	{"1 Corinthians", []string{"1 corinthians", "1 cor", "1co", "1c"}},
	{"2 Corinthians", []string{"2 corinthians", "2 cor", "2co", "2c"}},
	{"Galatians", []string{"galatians", "gal", "ga"}},
	{"Ephesians", []string{"ephesians", "eph", "ephes"}},
	{"Philippians", []string{"philippians", "phil", "php", "pp"}},
	{"Colossians", []string{"colossians", "col", "co"}},
	{"1 Thessalonians", []string{"1 thessalonians", "1 thess", "1th", "1t"}},
	{"2 Thessalonians", []string{"2 thessalonians", "2 thess", "2th", "2t"}},
	{"1 Timothy", []string{"1 timothy", "1 tim", "1ti", "1t"}},
	{"2 Timothy", []string{"2 timothy", "2 tim", "2ti", "2t"}},
	{"Titus", []string{"titus", "tit", "ti"}},
	{"Philemon", []string{"philemon", "phlm", "phm", "pm"}},
	{"Hebrews", []string{"hebrews", "heb", "he"}},
	{"James", []string{"james", "jas", "jm"}},
	{"1 Peter", []string{"1 peter", "1 pet", "1pe", "1pt", "1p"}},
	{"2 Peter", []string{"2 peter", "2 pet", "2pe", "2pt", "2p"}},
	{"1 John", []string{"1 john", "1 jn", "1j"}},
	{"2 John", []string{"2 john", "2 jn", "2j"}},
	{"3 John", []string{"3 john", "3 jn", "3j"}},
	{"Jude", []string{"jude", "jud", "jd"}},
	{"Revelation", []string{"revelation", "rev", "re", "rv"}},
}

// refPattern matches "book chapter:verse" with an optional verse range.
// The trailing :N group swallows malformed refs like "3:16-17:2" so they
// do not parse as two references.
var refPattern = regexp.MustCompile(`\b([123]?\s*[a-z]+)\s+(\d+):(\d+)(?:-(\d+))?(?::(\d+))?`)

// Extract returns the first verse reference found in text. The match is
// rejected, not skipped, when its book is unknown.
func Extract(text string) (Reference, bool) {
	m := refPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return Reference{}, false
	}
	return refFromMatch(m)
}

// ExtractAll returns every verse reference found in text, in order of
// appearance. Matches with unknown books are skipped.
func ExtractAll(text string) []Reference {
	var refs []Reference
	for _, m := range refPattern.FindAllStringSubmatch(strings.ToLower(text), -1) {
		if ref, ok := refFromMatch(m); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Contains reports whether text contains a verse reference.
func Contains(text string) bool {
	_, ok := Extract(text)
	return ok
}

func refFromMatch(m []string) (Reference, bool) {
	name, ok := canonicalBook(m[1])
	if !ok {
		return Reference{}, false
	}
	chapter, _ := strconv.Atoi(m[2])
	verse, _ := strconv.Atoi(m[3])
	ref := Reference{Book: name, Chapter: chapter, Verse: verse}
	if m[4] != "" {
		ref.VerseEnd, _ = strconv.Atoi(m[4])
	}
	return ref, true
}

func canonicalBook(part string) (string, bool) {
	part = strings.Join(strings.Fields(part), " ")
	for _, b := range books {
		for _, alias := range b.aliases {
			if part == alias {
				return b.name, true
			}
		}
	}
	return "", false
}
