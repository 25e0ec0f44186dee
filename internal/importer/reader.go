package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"vertex/internal/domain/model"
)

// Format is a supported tabular file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatHTML Format = "html"
)

const emptyHeader = "__EMPTY"

// DetectFormat picks a format from the file extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: unsupported extension %q", model.ErrParseFailure, filepath.Ext(filename))
	}
}

// Parse reads the first sheet (or table) of a tabular file, picking the decoder
// from the file name. The first row names the columns; every later row becomes
// a Row with blank cells left out.
func Parse(r io.Reader, filename string) ([]Row, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrParseFailure, filepath.Base(filename), err)
	}
	return ParseFormat(data, format)
}

// ParseFormat decodes data in a known format.
func ParseFormat(data []byte, format Format) ([]Row, error) {
	var (
		grid [][]Value
		err  error
	)
	switch format {
	case FormatXLSX:
		grid, err = readWorkbook(data)
	case FormatCSV:
		grid, err = readDelimited(data, ',')
	case FormatTSV:
		grid, err = readDelimited(data, '\t')
	case FormatHTML:
		grid, err = readHTMLTable(data)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		if errors.Is(err, model.ErrParseFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", model.ErrParseFailure, err)
	}
	return toRows(grid), nil
}

func toRows(grid [][]Value) []Row {
	if len(grid) == 0 {
		return nil
	}
	width := 0
	for _, line := range grid {
		width = max(width, len(line))
	}
	headers := headerNames(grid[0], width)

	rows := make([]Row, 0, len(grid)-1)
	for _, line := range grid[1:] {
		var row Row
		for i, v := range line {
			if v.IsBlank() {
				continue
			}
			row = append(row, Field{Name: headers[i], Value: v})
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// headerNames names each column from the header row. Blank headers become
// __EMPTY and repeated names get _1, _2 suffixes.
func headerNames(header []Value, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := range names {
		name := emptyHeader
		if i < len(header) && !header[i].IsBlank() {
			name = header[i].String()
		}
		count := seen[name]
		if count == 0 {
			seen[name] = 1
			names[i] = name
			continue
		}
		candidate := name + "_" + strconv.Itoa(count)
		count++
		for seen[candidate] > 0 {
			candidate = name + "_" + strconv.Itoa(count)
			count++
		}
		seen[name] = count
		seen[candidate] = 1
		names[i] = candidate
	}
	return names
}

func readWorkbook(data []byte) ([][]Value, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := sheets[0]

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	grid := make([][]Value, len(raw))
	for r, line := range raw {
		grid[r] = make([]Value, len(line))
		for c, text := range line {
			grid[r][c] = workbookCell(f, sheet, c+1, r+1, text)
		}
	}
	return grid, nil
}

func workbookCell(f *excelize.File, sheet string, col, row int, text string) Value {
	if text == "" {
		return Blank()
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return String(text)
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return String(text)
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return String(text)
	case excelize.CellTypeBool:
		if text == "1" {
			return String("TRUE")
		}
		return String("FALSE")
	default:
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			return Number(n)
		}
		return String(text)
	}
}

func readDelimited(data []byte, sep rune) ([][]Value, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var grid [][]Value
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line := make([]Value, len(record))
		for i, text := range record {
			line[i] = parseCell(text)
		}
		grid = append(grid, line)
	}
	return grid, nil
}

func readHTMLTable(data []byte) ([][]Value, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	table := findFirst(doc, atom.Table)
	if table == nil {
		return nil, errors.New("no table element found")
	}

	var grid [][]Value
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				grid = append(grid, tableRow(c))
			case atom.Table:
				// nested tables belong to their cell
			default:
				walk(c)
			}
		}
	}
	walk(table)
	return grid, nil
}

func tableRow(tr *html.Node) []Value {
	var line []Value
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		line = append(line, parseCell(strings.Join(strings.Fields(textContent(c)), " ")))
	}
	return line
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
