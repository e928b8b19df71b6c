// Package export flattens an archived page's cached hyperlinks into a CSV
// row set. Rows are ragged: each carries ten fixed columns plus seven
// columns per nested image, and rows with fewer images than the longest
// are simply shorter. The header is sized to the longest row, with image
// column groups numbered from image_1_*.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pastpages/storytracker/pkg/archive"
)

// Column group sizes of the export schema.
const (
	FixedColumns = 10
	ImageColumns = 7
)

var fixedHeader = []string{
	"archive_url",
	"archive_timestamp",
	"href",
	"domain",
	"displayText",
	"index",
	"isStory",
	"x",
	"y",
	"fontSize",
}

// Rows returns one row per cached hyperlink, all values stringified.
// A page with no extracted links yields an empty row set.
func Rows(p *archive.Page) [][]string {
	rows := make([][]string, 0, len(p.Hyperlinks))
	for _, link := range p.Hyperlinks {
		row := []string{
			p.URL,
			p.Timestamp.Format(time.RFC3339Nano),
			link.Href,
			link.Domain,
			link.Text,
			strconv.Itoa(link.Index),
			strconv.FormatBool(link.IsStory),
			number(link.X),
			number(link.Y),
			link.FontSize,
		}
		for _, img := range link.Images {
			row = append(row,
				img.Src,
				optional(img.Width),
				optional(img.Height),
				img.Orientation(),
				optional(img.Area()),
				number(img.X),
				number(img.Y),
			)
		}
		rows = append(rows, row)
	}
	return rows
}

// Header returns the header row sized to the page's longest link row. With
// no links there are no image slots and the ten fixed names stand alone.
func Header(p *archive.Page) []string {
	longest := 0
	for _, row := range Rows(p) {
		if len(row) > longest {
			longest = len(row)
		}
	}

	header := append([]string(nil), fixedHeader...)
	if longest <= FixedColumns {
		return header
	}
	slots := (longest - FixedColumns) / ImageColumns
	for n := 1; n <= slots; n++ {
		for _, col := range []string{"src", "width", "height", "orientation", "area", "x", "y"} {
			header = append(header, fmt.Sprintf("image_%d_%s", n, col))
		}
	}
	return header
}

// Write serializes the header and rows as CSV. Short rows are written as
// is; padding them out to the header width is deliberately not done.
func Write(w io.Writer, p *archive.Page) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(p)); err != nil {
		return err
	}
	for _, row := range Rows(p) {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return number(*v)
}
