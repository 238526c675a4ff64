package engine

import (
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
)

// HashMetadata returns a deterministic hex digest over the semantic content
// of a decoded metadata tree. The tree is canonicalized first — keys sorted,
// scalar formatting normalized — so two trees that differ only in incidental
// formatting (key order, whitespace in the source text) hash identically.
// Callers use the digest as a cheap staleness oracle before requesting a
// full document transfer.
func HashMetadata(meta Value) string {
	var sb strings.Builder
	writeCanonical(&sb, meta)
	sum := blake3.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// HashDocument covers the metadata tree plus the verbatim body text.
func HashDocument(doc *Document) string {
	var sb strings.Builder
	writeCanonical(&sb, doc.Meta)
	sb.WriteByte(0)
	sb.WriteString(doc.Body)
	sum := blake3.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// writeCanonical emits an unambiguous byte form: sorted mapping keys,
// quoted strings, normalized numbers. The output is for digesting only.
func writeCanonical(sb *strings.Builder, v Value) {
	switch v.Kind {
	case KindNull:
		sb.WriteString("~")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case KindNumber:
		sb.WriteString(formatNumber(v.Number))
	case KindString:
		sb.WriteString(strconv.Quote(v.Str))
	case KindSequence:
		sb.WriteByte('[')
		for i, item := range v.Seq {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, item)
		}
		sb.WriteByte(']')
	case KindMapping:
		entries := make([]MapEntry, len(v.Map))
		copy(entries, v.Map)
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
		sb.WriteByte('{')
		for i, entry := range entries {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(entry.Key))
			sb.WriteByte(':')
			writeCanonical(sb, entry.Value)
		}
		sb.WriteByte('}')
	}
}
