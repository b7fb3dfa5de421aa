// Package output formats lineage query results for the command line.
package output

import (
	"strings"

	"github.com/gnames/gnfmt"
	"gopkg.in/yaml.v3"
)

// Format is an output format of lineage results.
type Format int

const (
	CSV Format = iota
	TSV
	CompactJSON
	PrettyJSON
	YAML
)

var formats = map[string]Format{
	"csv":     CSV,
	"tsv":     TSV,
	"compact": CompactJSON,
	"pretty":  PrettyJSON,
	"yaml":    YAML,
}

// String returns the name of the format as used in flags.
func (f Format) String() string {
	for k, v := range formats {
		if v == f {
			return k
		}
	}
	return "unknown"
}

// NewFormat converts a flag value to Format.
func NewFormat(s string) (Format, error) {
	f, ok := formats[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return CSV, FormatError(s)
	}
	return f, nil
}

// Record is the lineage of one query.
type Record struct {
	// Query is the identifier, name or accession that was resolved.
	Query string `json:"query" yaml:"query"`

	// Lineage holds scientific names from root to the queried node.
	Lineage []string `json:"lineage" yaml:"lineage"`

	// IDs holds taxon IDs parallel to Lineage. It is filled only when
	// IDs are requested.
	IDs []string `json:"ids,omitempty" yaml:"ids,omitempty"`

	// Error describes why the query has no lineage.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// lineageSep joins lineage elements inside one CSV/TSV field.
const lineageSep = "|"

// Output renders records in the given format. CSV and TSV output starts
// with a header line. Each JSON record takes one line in compact format.
// IDs are left out of every format unless withIDs is true.
func Output(recs []Record, f Format, withIDs bool) (string, error) {
	if !withIDs {
		recs = withoutIDs(recs)
	}
	switch f {
	case CSV:
		return table(recs, ',', withIDs), nil
	case TSV:
		return table(recs, '\t', withIDs), nil
	case CompactJSON:
		var sb strings.Builder
		enc := gnfmt.GNjson{}
		for i := range recs {
			bs, err := enc.Encode(recs[i])
			if err != nil {
				return "", EncodeError(f, err)
			}
			sb.Write(bs)
			sb.WriteString("\n")
		}
		return sb.String(), nil
	case PrettyJSON:
		bs, err := gnfmt.GNjson{Pretty: true}.Encode(recs)
		if err != nil {
			return "", EncodeError(f, err)
		}
		return string(bs) + "\n", nil
	case YAML:
		bs, err := yaml.Marshal(recs)
		if err != nil {
			return "", EncodeError(f, err)
		}
		return string(bs), nil
	default:
		return "", FormatError(f.String())
	}
}

func withoutIDs(recs []Record) []Record {
	res := make([]Record, len(recs))
	for i, v := range recs {
		v.IDs = nil
		res[i] = v
	}
	return res
}

func table(recs []Record, sep rune, withIDs bool) string {
	header := []string{"Query", "Lineage"}
	if withIDs {
		header = append(header, "IDs")
	}
	header = append(header, "Error")

	var sb strings.Builder
	sb.WriteString(gnfmt.ToCSV(header, sep))
	sb.WriteString("\n")
	for _, v := range recs {
		row := []string{v.Query, strings.Join(v.Lineage, lineageSep)}
		if withIDs {
			row = append(row, strings.Join(v.IDs, lineageSep))
		}
		row = append(row, v.Error)
		sb.WriteString(gnfmt.ToCSV(row, sep))
		sb.WriteString("\n")
	}
	return sb.String()
}
