// Package accession extracts record accessions from FASTA-like
// definition lines.
package accession

import (
	"strings"
)

// FromVersion removes the version suffix from a versioned accession,
// for example "P06912.2" becomes "P06912".
func FromVersion(s string) string {
	if idx := strings.LastIndexByte(s, '.'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// FromDefline returns the accession of a definition line. The leading
// '>' must be removed already.
//
// Recognized layouts:
//
//	gi|401774261|emb|CCJ07127.1| Conserved...  -> CCJ07127
//	sp|Q8I6R7|ACN2_ACAGO Acanthoscurrin-2 ...  -> Q8I6R7
//	tr|A0A023|A0A023_9ABC ...                  -> A0A023
//	WP_011112927.1 hypothetical protein ...    -> WP_011112927
func FromDefline(defline string) string {
	defline = strings.TrimSpace(defline)
	switch {
	case strings.HasPrefix(defline, "gi|"):
		fields := strings.Split(defline, "|")
		if len(fields) > 3 {
			return FromVersion(strings.TrimSpace(fields[3]))
		}
		return ""
	case strings.HasPrefix(defline, "sp|"), strings.HasPrefix(defline, "tr|"):
		fields := strings.Split(defline, "|")
		return strings.TrimSpace(fields[1])
	default:
		fields := strings.Fields(defline)
		if len(fields) == 0 {
			return ""
		}
		return FromVersion(fields[0])
	}
}
