// Package iodump reads NCBI taxonomy dumps: names.dmp, nodes.dmp and
// accession2taxid link files.
package iodump

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/gnames/gnlib"
	"github.com/gnames/gnlineage/pkg/taxon"
)

const (
	// fieldSep separates fields of names.dmp and nodes.dmp.
	fieldSep = "\t|\t"
	// rowEnd terminates the last field of a dmp row.
	rowEnd = "\t|"

	scientificName = "scientific name"
	linksHeader    = "accession"

	// maxLine is the longest line the scanner accepts.
	maxLine = 1 << 20
)

// Names reads a names.dmp file and returns scientific names by taxon ID.
// The first scientific name of an ID wins. Lines with fewer than four
// fields make the whole file invalid.
func Names(path string) (map[string]string, error) {
	res := make(map[string]string)
	err := scanLines(path, func(lineNum int, line string) error {
		fields := strings.Split(line, fieldSep)
		if len(fields) < 4 {
			return ParseError(path, lineNum, line)
		}
		id := strings.TrimSpace(fields[0])
		class := strings.TrimSpace(strings.Split(fields[3], rowEnd)[0])
		if class != scientificName {
			return nil
		}
		if _, ok := res[id]; ok {
			return nil
		}
		res[id] = gnlib.FixUtf8(fields[1])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Nodes reads a nodes.dmp file and returns parent IDs by taxon ID. The
// self-parented root row is not included. Any second row for an ID,
// including the root, is a DuplicateID error.
func Nodes(path string) (map[string]string, error) {
	res, _, err := Tree(path)
	return res, err
}

// Tree reads a nodes.dmp file like Nodes and additionally returns the
// IDs of self-parented roots in file order.
func Tree(path string) (parents map[string]string, roots []string, err error) {
	parents = make(map[string]string)
	seenRoots := make(map[string]struct{})
	err = scanLines(path, func(lineNum int, line string) error {
		fields := strings.Split(line, fieldSep)
		if len(fields) < 2 {
			return ParseError(path, lineNum, line)
		}
		id := strings.TrimSpace(fields[0])
		parentID := strings.TrimSpace(strings.Split(fields[1], rowEnd)[0])

		_, isRoot := seenRoots[id]
		_, isNode := parents[id]
		if isRoot || isNode {
			return DuplicateIDError(path, lineNum, id, parentID)
		}

		if id == parentID {
			seenRoots[id] = struct{}{}
			roots = append(roots, id)
			return nil
		}
		parents[id] = parentID
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return parents, roots, nil
}

// Links returns a lazy sequence of links from an accession2taxid file.
// The file is opened when iteration starts and closed when it ends, so
// every traversal reads the file anew. The sequence ends after the first
// error.
func Links(path string) iter.Seq2[taxon.Link, error] {
	return func(yield func(taxon.Link, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(taxon.Link{}, OpenError(path, err))
			return
		}
		defer f.Close()

		for link, err := range LinksFrom(f, path) {
			if !yield(link, err) {
				return
			}
		}
	}
}

// LinksFrom returns a one-pass sequence of links read from r. The name
// identifies the source in parse errors.
func LinksFrom(r io.Reader, name string) iter.Seq2[taxon.Link, error] {
	return func(yield func(taxon.Link, error) bool) {
		sc := newScanner(r)
		var lineNum int
		for sc.Scan() {
			lineNum++
			line := sc.Text()
			fields := strings.Fields(line)
			if len(fields) == 0 || fields[0] == linksHeader {
				continue
			}
			if len(fields) < 3 {
				yield(taxon.Link{}, ParseError(name, lineNum, line))
				return
			}
			link := taxon.Link{Accession: fields[0], TaxonID: fields[2]}
			if !yield(link, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(taxon.Link{}, ReadError(name, err))
		}
	}
}

func scanLines(path string, fn func(int, string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return OpenError(path, err)
	}
	defer f.Close()

	sc := newScanner(f)
	var lineNum int
	for sc.Scan() {
		lineNum++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(lineNum, line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return ReadError(path, err)
	}
	return nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return sc
}
