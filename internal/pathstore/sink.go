package pathstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgallion1/lawgest/internal/lawdoc"
)

// Sink mirrors converted statutes into pathstore:
//
//	laws/{slug}/records/{discriminator}  one node per record
//	laws/{slug}/meta                     title, code, hash, record count
//
// Writes are idempotent PUTs, so a failed Write can be retried whole.
type Sink struct {
	client *Client
}

func NewSink(client *Client) *Sink {
	return &Sink{client: client}
}

// Write stores every record of set and its meta node and returns the key
// prefix written under.
func (s *Sink) Write(ctx context.Context, set lawdoc.RecordSet) (string, error) {
	prefix := "laws/" + set.Identity.Slug
	source := "lawgest:" + set.ContentHash

	for _, rec := range set.Records {
		key := prefix + "/records/" + RecordKey(set.Identity.Slug, rec.ID)
		err := s.client.PutNode(ctx, key, NodeRequest{
			Value:      rec,
			MemoryType: "semantic",
			Salience:   0.5,
			Source:     source,
		})
		if err != nil {
			return prefix, fmt.Errorf("store record %s: %w", rec.ID, err)
		}
	}

	err := s.client.PutNode(ctx, prefix+"/meta", NodeRequest{
		Value: map[string]any{
			"title":        set.Identity.Title,
			"law_code":     set.Identity.Code,
			"source":       set.SourceName,
			"content_hash": set.ContentHash,
			"records":      len(set.Records),
		},
		MemoryType: "metacognitive",
		Salience:   0.5,
		Source:     source,
	})
	if err != nil {
		return prefix, fmt.Errorf("store meta: %w", err)
	}
	return prefix, nil
}

// RecordKey strips the slug namespace from a record id: "bns_4A" -> "4A".
func RecordKey(slug, id string) string {
	return strings.TrimPrefix(id, slug+"_")
}
