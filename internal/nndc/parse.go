package nndc

import (
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"

	"golang.org/x/net/html"
)

// ErrNoLevelTable is returned when the NuDat page does not contain the
// expected level table, e.g. for an unknown nucleus or a layout change.
var ErrNoLevelTable = errors.New("nndc: level table not found in page")

// levelPattern extracts the leading numeric token of a level cell, tolerating
// uncertainty suffixes and scientific notation.
var levelPattern = regexp.MustCompile(`\s*(\d+(\.\d+)?(E[+\-]?\d+)?)\s*`)

// ParseLevels extracts adopted level energies from a NuDat "classic dataset"
// page. The energies live in the first column of the third table, one row
// per level after the header. Values are keV on the page and are returned in
// MeV rounded to three decimals.
//
// An empty slice with a nil error means the page parsed fine but listed no
// levels; that is distinct from ErrNoLevelTable.
func ParseLevels(r io.Reader) ([]float64, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("nndc: parse page: %w", err)
	}

	tables := elementsByTag(doc, "table")
	if len(tables) < 3 {
		return nil, ErrNoLevelTable
	}

	var levels []float64
	rows := elementsByTag(tables[2], "tr")
	if len(rows) == 0 {
		return nil, ErrNoLevelTable
	}
	for _, row := range rows[1:] { // first row is the header
		cells := elementsByTag(row, "td")
		if len(cells) == 0 {
			continue
		}
		match := levelPattern.FindStringSubmatch(textContent(cells[0]))
		if match == nil {
			continue
		}
		kev, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue // not a level energy; skip the row
		}
		levels = append(levels, math.Round(kev)/1000)
	}
	return levels, nil
}

// elementsByTag collects the elements with the given tag under n, in
// document order. The root itself is excluded.
func elementsByTag(n *html.Node, tag string) []*html.Node {
	var found []*html.Node
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if node != n && node.Type == html.ElementNode && node.Data == tag {
			found = append(found, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return found
}

// textContent concatenates all text nodes under n.
func textContent(n *html.Node) string {
	var text string
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if node.Type == html.TextNode {
			text += node.Data
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return text
}
