package verseref

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Reference
	}{
		{"plain", "John 3:16", Reference{Book: "John", Chapter: 3, Verse: 16}},
		{"embedded", "according to John 3:16 we are loved", Reference{Book: "John", Chapter: 3, Verse: 16}},
		{"abbreviation", "Matt 7:7", Reference{Book: "Matthew", Chapter: 7, Verse: 7}},
		{"lowercase", "read me romans 8:28", Reference{Book: "Romans", Chapter: 8, Verse: 28}},
		{"range", "explain John 3:16-17", Reference{Book: "John", Chapter: 3, Verse: 16, VerseEnd: 17}},
		{"numbered book", "1 corinthians 13:4", Reference{Book: "1 Corinthians", Chapter: 13, Verse: 4}},
		{"numbered abbreviation", "what does 1co 13:4 say", Reference{Book: "1 Corinthians", Chapter: 13, Verse: 4}},
		{"psalm singular", "psalm 23:1", Reference{Book: "Psalms", Chapter: 23, Verse: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text)
			if !ok {
				t.Fatalf("Extract(%q) found nothing", tt.text)
			}
			if got != tt.want {
				t.Errorf("Extract(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtract_NoReference(t *testing.T) {
	for _, text := range []string{
		"",
		"hello there",
		"what can you do",
		"chapter 3 verse 16", // no colon form
		"foo 1:2",            // unknown book
	} {
		if ref, ok := Extract(text); ok {
			t.Errorf("Extract(%q) = %+v, want no match", text, ref)
		}
	}
}

func TestExtract_AbbreviationsNormalize(t *testing.T) {
	full, ok := Extract("Matthew 7:7")
	if !ok {
		t.Fatal("Extract(Matthew 7:7) found nothing")
	}
	abbr, ok := Extract("Matt 7:7")
	if !ok {
		t.Fatal("Extract(Matt 7:7) found nothing")
	}
	if full != abbr {
		t.Errorf("abbreviation mismatch: %+v vs %+v", abbr, full)
	}
}

func TestExtract_AmbiguousAliasPrefersFirstBook(t *testing.T) {
	// "1t" is listed for both 1 Thessalonians and 1 Timothy; table order
	// decides.
	got, ok := Extract("1t 4:3")
	if !ok {
		t.Fatal("Extract(1t 4:3) found nothing")
	}
	if got.Book != "1 Thessalonians" {
		t.Errorf("Extract(1t 4:3).Book = %q, want %q", got.Book, "1 Thessalonians")
	}
}

func TestExtractAll(t *testing.T) {
	refs := ExtractAll("compare john 3:16 with romans 8:28 and foo 1:1")
	want := []Reference{
		{Book: "John", Chapter: 3, Verse: 16},
		{Book: "Romans", Chapter: 8, Verse: 28},
	}
	if len(refs) != len(want) {
		t.Fatalf("ExtractAll() returned %d refs, want %d", len(refs), len(want))
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("ExtractAll()[%d] = %+v, want %+v", i, refs[i], want[i])
		}
	}
}

func TestContains(t *testing.T) {
	if !Contains("thoughts on jn 3:16?") {
		t.Error("Contains() = false for a verse reference")
	}
	if Contains("thoughts on dinner?") {
		t.Error("Contains() = true for plain chat")
	}
}

func TestReference_String(t *testing.T) {
	tests := []struct {
		ref  Reference
		want string
	}{
		{Reference{Book: "John", Chapter: 3, Verse: 16}, "John 3:16"},
		{Reference{Book: "John", Chapter: 3, Verse: 16, VerseEnd: 17}, "John 3:16-17"},
		{Reference{Book: "1 Peter", Chapter: 5, Verse: 7}, "1 Peter 5:7"},
	}
	for _, tt := range tests {
		if got := tt.ref.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
