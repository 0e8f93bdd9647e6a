package util

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

const (
	truncatedStringEnd = " ..."
	maxLength          = 40
)

// RowColumns returns the sorted union of keys of map rows. Rows of any
// other type are rendered in a single "value" column.
func RowColumns(rows []any) []string {
	seen := make(map[string]struct{})
	for _, aRow := range rows {
		values, ok := aRow.(map[string]any)
		if !ok {
			seen["value"] = struct{}{}
			continue
		}
		for column := range values {
			seen[column] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	for column := range seen {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

// PrintTable renders rows as a bordered text table.
func PrintTable(w io.Writer, columns []string, rows []any) {
	cells := make([][]string, 0, len(rows))
	for _, aRow := range rows {
		cells = append(cells, rowCells(columns, aRow))
	}
	columnSize, tableWidth := computeTableSize(columns, cells)

	printBorder(w, tableWidth)
	for i, column := range columns {
		// pad with columnSize[i] spaces on the right (left-justify the field)
		fmt.Fprintf(w, "| %-*s ", columnSize[i], column)
	}
	fmt.Fprintf(w, "|\n")
	printBorder(w, tableWidth)

	for _, aRow := range cells {
		for i, cell := range aRow {
			fmt.Fprintf(w, "| %-*s ", columnSize[i], cell)
		}
		fmt.Fprintf(w, "|\n")
	}
	printBorder(w, tableWidth)
}

func printBorder(w io.Writer, tableWidth int) {
	fmt.Fprintf(w, "+%s+\n", strings.Repeat("-", tableWidth-2))
}

func rowCells(columns []string, aRow any) []string {
	values, isMap := aRow.(map[string]any)
	cells := make([]string, len(columns))
	for i, column := range columns {
		switch {
		case isMap:
			cells[i] = formatCell(values[column])
		case column == "value":
			cells[i] = formatCell(aRow)
		default:
			cells[i] = formatCell(nil)
		}
	}
	return cells
}

func formatCell(aValue any) string {
	if aValue == nil {
		return "NULL"
	}
	aStringValue := fmt.Sprint(aValue)
	r := []rune(aStringValue)
	if len(r) > maxLength {
		aStringValue = string(r[0:maxLength-len(truncatedStringEnd)]) + truncatedStringEnd
	}
	return aStringValue
}

func computeTableSize(columns []string, cells [][]string) ([]int, int) {
	// find max width for each column
	columnSize := make([]int, len(columns))
	for i, column := range columns {
		columnSize[i] = len([]rune(column))
	}
	for _, aRow := range cells {
		for i, cell := range aRow {
			if size := len([]rune(cell)); size > columnSize[i] {
				columnSize[i] = size
			}
		}
	}

	// left border is | followed by a space, right border is space followed by | (2+2=4)
	// then between each column we have space, |, space (3)
	tableWidth := 4
	if len(columnSize) > 1 {
		tableWidth += (len(columnSize) - 1) * 3
	}
	for _, columnWidth := range columnSize {
		tableWidth += columnWidth
	}

	return columnSize, tableWidth
}
