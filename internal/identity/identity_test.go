package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_FilenameFallback(t *testing.T) {
	text := "An Act to consolidate the law relating to offences.\n1. Short title.\n"
	id := Resolve(text, "indian_penal_code.pdf")

	assert.Equal(t, "Indian Penal Code", id.Title)
	assert.Equal(t, "indian_penal_code", id.Slug)
	assert.Equal(t, CodeOther, id.Code)
}

func TestResolve_TitleFromText(t *testing.T) {
	text := "GAZETTE OF INDIA\nTHE BHARATIYA NYAYA SANHITA, 2023\nNO. 45 OF 2023\n"
	id := Resolve(text, "bns.pdf")

	assert.Equal(t, "The BHARATIYA NYAYA Sanhita, 2023", id.Title)
	assert.Equal(t, CodeBNS, id.Code)
	assert.Equal(t, "the_bharatiya_nyaya_sanhita_2023", id.Slug)
}

func TestTitleFromText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"act", "THE CONSTITUTION (AMENDMENT) ACT, 1950", "The CONSTITUTION (AMENDMENT) Act, 1950", true},
		{"adhiniyam lower case", "the bharatiya sakshya adhiniyam, 2023", "The bharatiya sakshya Adhiniyam, 2023", true},
		{"no space before year", "THE FOO ACT,1999", "The FOO Act, 1999", true},
		{"name across spaces", "THE   DOWRY   PROHIBITION ACT, 1961", "The DOWRY   PROHIBITION Act, 1961", true},
		{"first occurrence wins", "THE A ACT, 2001 and THE B ACT, 2002", "The A Act, 2001", true},
		{"missing year", "THE FOO ACT", "", false},
		{"no designator", "THE FOO CODE, 1860", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := TitleFromText(tc.text)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"indian_penal_code.pdf", "Indian Penal Code"},
		{"/data/laws/BNSS_2023.docx", "Bnss 2023"},
		{"constitution.txt", "Constitution"},
		{"plain", "Plain"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, TitleFromFilename(tc.filename), "filename=%q", tc.filename)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"The Bharatiya Nyaya Sanhita, 2023", CodeBNS},
		{"The Bharatiya Nagrik Suraksha Sanhita, 2023", CodeBNSS},
		{"The Bharatiya Sakshya Adhiniyam, 2023", CodeBSA},
		{"Constitution Of India", CodeConst},
		{"The Indian Contract Act, 1872", CodeOther},
		{"Some Sanhita", CodeOther},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Classify(tc.title), "title=%q", tc.title)
	}
}

func TestClassify_MultiWordPhraseWins(t *testing.T) {
	// "SANHITA" alone must not pull a BNSS title into BNS.
	assert.Equal(t, CodeBNSS, Classify("THE BHARATIYA NAGRIK SURAKSHA SANHITA, 2023"))
}

func TestClassify_OrderIsSignificant(t *testing.T) {
	// Both phrases present: the earlier rule wins.
	assert.Equal(t, CodeBNS, Classify("nyaya sanhita and the constitution"))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Bharatiya Nyaya Sanhita, 2023", "the_bharatiya_nyaya_sanhita_2023"},
		{"  --Hello--World--  ", "hello_world"},
		{"snake_case_kept", "snake_case_kept"},
		{"Section 4(a)", "section_4_a"},
		{"!!!", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Slugify(tc.in), "in=%q", tc.in)
	}
}

func TestSlugify_Truncates(t *testing.T) {
	got := Slugify(strings.Repeat("abcde ", 20))
	assert.Len(t, []rune(got), MaxSlugLen)
	assert.True(t, strings.HasPrefix(got, "abcde_abcde"))
}

func TestResolve_EmptySlugFallsBack(t *testing.T) {
	id := Resolve("no title here", "###.pdf")
	require.NotEmpty(t, id.Slug)
	assert.Equal(t, "document", id.Slug)

	id = Resolve("THE ### ACT, 2000", "criminal_law.pdf")
	assert.Equal(t, "the_act_2000", id.Slug)
}

func TestResolve_Deterministic(t *testing.T) {
	text := "THE BHARATIYA SAKSHYA ADHINIYAM, 2023\nbody"
	a := Resolve(text, "x.pdf")
	b := Resolve(text, "x.pdf")
	assert.Equal(t, a, b)
}
