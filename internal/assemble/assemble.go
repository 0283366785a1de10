// Package assemble turns a segmented statute into its ordered record list.
package assemble

import (
	"strings"

	"github.com/dgallion1/lawgest/internal/lawdoc"
)

// PreambleDiscriminator is the id suffix of the preamble record.
const PreambleDiscriminator = "preamble"

// Records emits the preamble record followed by one record per section span,
// in document order. Chapter spans update the chapter context of the sections
// after them and emit nothing.
func Records(id lawdoc.Identity, seg lawdoc.Segmentation) []lawdoc.Record {
	records := make([]lawdoc.Record, 0, seg.SectionCount()+1)
	records = append(records, lawdoc.Record{
		ID:      RecordID(id.Slug, PreambleDiscriminator),
		LawName: id.Title,
		LawCode: id.Code,
		Chapter: nil,
		Title:   lawdoc.PreambleTitle,
		Content: seg.Preamble,
	})

	var chapter *string
	for _, sp := range seg.Spans {
		if sp.Kind == lawdoc.KindChapter {
			name := sp.Heading
			if name == "" {
				name = sp.Label
			}
			chapter = &name
			continue
		}
		records = append(records, lawdoc.Record{
			ID:      RecordID(id.Slug, Discriminator(sp.Label)),
			LawName: id.Title,
			LawCode: id.Code,
			Chapter: chapter,
			Title:   sp.Label + " " + sp.Heading,
			Content: lawdoc.Trim(sp.Body),
		})
	}
	return records
}

// Discriminator strips periods from a section label: "74A." -> "74A".
func Discriminator(label string) string {
	return strings.ReplaceAll(label, ".", "")
}

// RecordID joins the document slug and a discriminator.
func RecordID(slug, discriminator string) string {
	return slug + "_" + discriminator
}
