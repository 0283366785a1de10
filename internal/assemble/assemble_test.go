package assemble

import (
	"strings"
	"testing"

	"github.com/dgallion1/lawgest/internal/identity"
	"github.com/dgallion1/lawgest/internal/lawdoc"
	"github.com/dgallion1/lawgest/internal/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(text, filename string) (lawdoc.Identity, []lawdoc.Record) {
	id := identity.Resolve(text, filename)
	return id, Records(id, segment.Split(text))
}

const sampleAct = `GOVERNMENT OF INDIA
THE BHARATIYA NYAYA SANHITA, 2023
An Act to consolidate and amend the provisions relating to offences.

ARRANGEMENT OF SECTIONS
1. Short title, commencement and application.
(1) This Act may be called the Bharatiya Nyaya Sanhita, 2023.
2. Definitions.
In this Sanhita, unless the context otherwise requires,—
CHAPTER II
OF PUNISHMENTS
4. Punishments.
The punishments to which offenders are liable are—
4A. Community service.
Community service may be ordered.
CHAPTER III
GENERAL EXCEPTIONS
14. Act done by a person bound by law.
Nothing is an offence which is done by a person bound by law.
`

func TestRecords_PreambleFirstAndUnique(t *testing.T) {
	_, records := build(sampleAct, "bns.pdf")
	require.NotEmpty(t, records)

	assert.Equal(t, lawdoc.PreambleTitle, records[0].Title)
	assert.Nil(t, records[0].Chapter)
	count := 0
	for _, r := range records {
		if r.Title == lawdoc.PreambleTitle {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRecords_SampleAct(t *testing.T) {
	id, records := build(sampleAct, "bns.pdf")

	assert.Equal(t, "The BHARATIYA NYAYA Sanhita, 2023", id.Title)
	assert.Equal(t, "BNS", id.Code)

	require.Len(t, records, 6)
	pre := records[0]
	assert.Equal(t, "the_bharatiya_nyaya_sanhita_2023_preamble", pre.ID)
	assert.Equal(t, "GOVERNMENT OF INDIA\nTHE BHARATIYA NYAYA SANHITA, 2023\nAn Act to consolidate and amend the provisions relating to offences.", pre.Content)

	wantIDs := []string{
		"the_bharatiya_nyaya_sanhita_2023_1",
		"the_bharatiya_nyaya_sanhita_2023_2",
		"the_bharatiya_nyaya_sanhita_2023_4",
		"the_bharatiya_nyaya_sanhita_2023_4A",
		"the_bharatiya_nyaya_sanhita_2023_14",
	}
	wantChapters := []string{"", "", "OF PUNISHMENTS", "OF PUNISHMENTS", "GENERAL EXCEPTIONS"}
	for i, r := range records[1:] {
		assert.Equal(t, wantIDs[i], r.ID)
		assert.Equal(t, id.Title, r.LawName)
		assert.Equal(t, "BNS", r.LawCode)
		if wantChapters[i] == "" {
			assert.Nil(t, r.Chapter, "record %s", r.ID)
		} else {
			require.NotNil(t, r.Chapter, "record %s", r.ID)
			assert.Equal(t, wantChapters[i], *r.Chapter)
		}
	}

	assert.Equal(t, "1. Short title, commencement and application.", records[1].Title)
	assert.Equal(t, "(1) This Act may be called the Bharatiya Nyaya Sanhita, 2023.", records[1].Content)
	assert.Equal(t, "4A. Community service.", records[4].Title)
	assert.Equal(t, "Community service may be ordered.", records[4].Content)
}

func TestRecords_IDsCarrySlugAndNoPeriods(t *testing.T) {
	id, records := build(sampleAct, "bns.pdf")
	for _, r := range records[1:] {
		assert.True(t, strings.HasPrefix(r.ID, id.Slug+"_"), "id %q", r.ID)
		assert.NotContains(t, r.ID, ".")
	}
}

func TestRecords_ChapterExample(t *testing.T) {
	text := "CHAPTER I\nOF PUNISHMENTS\n53. Punishments.—\nThe punishments to which offenders are liable."
	_, records := build(text, "penal.pdf")

	require.Len(t, records, 2)
	sec := records[1]
	assert.Equal(t, "penal_53", sec.ID)
	assert.Equal(t, "53. Punishments.—", sec.Title)
	require.NotNil(t, sec.Chapter)
	assert.Equal(t, "OF PUNISHMENTS", *sec.Chapter)
	assert.Equal(t, "The punishments to which offenders are liable.", sec.Content)
}

func TestRecords_ChapterWithoutTitleUsesLabel(t *testing.T) {
	_, records := build("CHAPTER IV\n1. Short title\nbody", "x.txt")
	require.Len(t, records, 2)
	require.NotNil(t, records[1].Chapter)
	assert.Equal(t, "CHAPTER IV", *records[1].Chapter)
}

func TestRecords_ChapterFromSectionHeading(t *testing.T) {
	_, records := build("1. Before\nx\n12\nCHAPTER II\nOF GENERAL EXCEPTIONS\n13. Foo bar\nbody", "x.txt")

	require.Len(t, records, 3)
	assert.Nil(t, records[1].Chapter)
	require.NotNil(t, records[2].Chapter)
	assert.Equal(t, "CHAPTER II", *records[2].Chapter)
}

func TestRecords_ZeroSpansOnlyPreamble(t *testing.T) {
	_, records := build("Preface text\nARRANGEMENT OF SECTIONS\nnothing numbered", "empty.txt")
	require.Len(t, records, 1)
	assert.Equal(t, "empty_preamble", records[0].ID)
	assert.Equal(t, "Preface text", records[0].Content)
}

func TestRecords_EmptyPreambleStillEmitted(t *testing.T) {
	_, records := build("1. Only section\ntext", "only.txt")
	require.Len(t, records, 2)
	assert.Equal(t, lawdoc.PreambleTitle, records[0].Title)
	assert.Equal(t, "", records[0].Content)
}

func TestRecords_DuplicateLabelsKept(t *testing.T) {
	_, records := build("5. First\na\n5. Second\nb", "dup.txt")
	require.Len(t, records, 3)
	assert.Equal(t, records[1].ID, records[2].ID)
	assert.Equal(t, "5. Second", records[2].Title)
}

func TestRecords_Idempotent(t *testing.T) {
	_, a := build(sampleAct, "bns.pdf")
	_, b := build(sampleAct, "bns.pdf")
	assert.Equal(t, a, b)
}

func TestDiscriminator(t *testing.T) {
	assert.Equal(t, "74A", Discriminator("74A."))
	assert.Equal(t, "74", Discriminator("74"))
	assert.Equal(t, "12", Discriminator("1.2."))
}

func TestRecords_InsertedChapterUpdatesContext(t *testing.T) {
	text := "CHAPTER IX\nOF OFFENCES BY PUBLIC SERVANTS\n" +
		"166. Public servant disobeying law.\nWhoever disobeys.\n" +
		"CHAPTER IXA\nOF OFFENCES RELATING TO ELECTIONS\n" +
		"171A. Candidate defined.\nFor the purposes of this Chapter."
	_, records := build(text, "ipc.pdf")

	require.Len(t, records, 3)
	assert.Equal(t, "ipc_166", records[1].ID)
	assert.Equal(t, "Whoever disobeys.", records[1].Content)
	require.NotNil(t, records[1].Chapter)
	assert.Equal(t, "OF OFFENCES BY PUBLIC SERVANTS", *records[1].Chapter)

	assert.Equal(t, "ipc_171A", records[2].ID)
	require.NotNil(t, records[2].Chapter)
	assert.Equal(t, "OF OFFENCES RELATING TO ELECTIONS", *records[2].Chapter)
}
