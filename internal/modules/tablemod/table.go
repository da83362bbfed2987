// Package tablemod implements the fixed `table` built-in module: rendering
// arrays of records as an aligned text table.
//
// Grounded on the teacher's internal/modules/globals/console.go Console.Table
// method, which only does a raw `%+v` dump of the value. Factored out into a
// standalone module with a real column-aligned renderer, since spec.md's
// built-in table lists `table` as its own module rather than a console method.
package tablemod

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/bridge"
	"github.com/rizqme/hype/internal/herrors"
)

const Name = "table"

func Install(reg *bridge.Registry) {
	reg.Register(Name, func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		obj.Set("render", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return rt.ToValue("")
			}
			rows, columns := extractRows(rt, call.Arguments[0])
			return rt.ToValue(render(rows, columns))
		})
		obj.Set("print", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Undefined()
			}
			rows, columns := extractRows(rt, call.Arguments[0])
			fmt.Println(render(rows, columns))
			return goja.Undefined()
		})
		return obj, nil
	})
}

func extractRows(rt *goja.Runtime, v goja.Value) ([][]string, []string) {
	exported := v.Export()
	items, ok := exported.([]interface{})
	if !ok {
		bridge.Throw(rt, herrors.KindValidationError, "table: expected an array of records")
	}

	colSet := map[string]bool{}
	var columns []string
	records := make([]map[string]string, 0, len(items))
	for _, item := range items {
		record := map[string]string{}
		if m, ok := item.(map[string]interface{}); ok {
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				record[k] = fmt.Sprintf("%v", m[k])
				if !colSet[k] {
					colSet[k] = true
					columns = append(columns, k)
				}
			}
		} else {
			record["value"] = fmt.Sprintf("%v", item)
			if !colSet["value"] {
				colSet["value"] = true
				columns = append(columns, "value")
			}
		}
		records = append(records, record)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = r[c]
		}
		rows = append(rows, row)
	}
	return rows, columns
}

func render(rows [][]string, columns []string) string {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow(&b, columns, widths)
	writeSeparator(&b, widths)
	for _, row := range rows {
		writeRow(&b, row, widths)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteString("|")
	for i, cell := range cells {
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func writeSeparator(b *strings.Builder, widths []int) {
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("|")
	}
	b.WriteString("\n")
}
