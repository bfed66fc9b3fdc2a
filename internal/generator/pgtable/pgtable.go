// Package pgtable renders a CREATE TABLE statement from a CSV file. Unlike
// the other generators it samples up to 100 rows per column and elects the
// most specific SQL type consistent with every sampled value.
package pgtable

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"composer/internal/config"
	"composer/internal/inference"
	"composer/internal/source"
)

// SampleLimit caps how many data rows the type election reads per column.
const SampleLimit = 100

// Statement is the emitted DDL. The column list always has exactly one
// entry per CSV header.
type Statement struct {
	TableName string
	Columns   []Column
}

// Column pairs a CSV header with its elected SQL type.
type Column struct {
	Name    string
	SQLType string
}

// Generate elects a column type per header and assembles the statement.
func Generate(table *source.Table, cfg *config.Config) (*Statement, error) {
	stmt := &Statement{
		TableName: cfg.Table.Name,
		Columns:   make([]Column, 0, len(table.Headers)),
	}
	for i, header := range table.Headers {
		stmt.Columns = append(stmt.Columns, Column{
			Name:    header,
			SQLType: electType(header, table.SampleColumn(i, SampleLimit)),
		})
	}
	return stmt, nil
}

// Render produces the SQL text. Identifiers are double-quoted with embedded
// quotes doubled.
func (s *Statement) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quoteIdent(s.TableName))
	for i, col := range s.Columns {
		fmt.Fprintf(&b, "    %s %s", quoteIdent(col.Name), col.SQLType)
		if i < len(s.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(");\n")
	return b.String()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// electType picks the most specific type every non-empty sampled value
// conforms to, in the order INT, BIGINT, NUMERIC, BOOLEAN, DATE, TIMESTAMP.
// Any non-conforming value demotes the column, ultimately to TEXT. Empty
// values never demote on their own; a fully-empty column is TEXT.
func electType(name string, samples []string) string {
	if inference.IsSensitiveName(name) {
		return "TEXT"
	}

	allInt, allNumeric, allBool, allDate, allTimestamp := true, true, true, true, true
	needsBig := false
	sawValue := false

	for _, raw := range samples {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		sawValue = true

		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			if n > math.MaxInt32 || n < math.MinInt32 {
				needsBig = true
			}
		} else {
			allInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			allNumeric = false
		}
		if !isBoolToken(v) {
			allBool = false
		}
		if !parsesWith(v, dateLayouts) {
			allDate = false
		}
		if !parsesWith(v, timestampLayouts) {
			allTimestamp = false
		}
	}

	switch {
	case !sawValue:
		return "TEXT"
	case allInt && !needsBig:
		return "INT"
	case allInt:
		return "BIGINT"
	case allNumeric:
		return "NUMERIC"
	case allBool:
		return "BOOLEAN"
	case allDate:
		return "DATE"
	case allTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006"}

var timestampLayouts = []string{time.RFC3339, "2006-01-02 15:04:05"}

func parsesWith(v string, layouts []string) bool {
	for _, layout := range layouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func isBoolToken(v string) bool {
	switch strings.ToLower(v) {
	case "true", "false", "yes", "no":
		return true
	default:
		return false
	}
}
