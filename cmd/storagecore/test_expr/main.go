// Command test_expr exercises predicate expression evaluation and the
// record manager's predicate-driven scan.
package main

import (
	"log"
	"os"

	"storagecore/internal/record"
)

func main() {
	name := "assign_expr_test.tbl"
	defer os.Remove(name)

	schema := &record.Schema{Attrs: []record.Attribute{
		{Name: "a", Type: record.IntType},
		{Name: "b", Type: record.StringType, Length: 4},
	}}
	if err := record.CreateTable(name, schema); err != nil {
		log.Fatalf("create table: %v", err)
	}
	tbl, err := record.OpenTable(name, record.DefaultOptions())
	if err != nil {
		log.Fatalf("open table: %v", err)
	}
	defer tbl.CloseTable()

	for _, row := range []struct {
		a int32
		b string
	}{{1, "aaaa"}, {2, "bbbb"}, {3, "cccc"}} {
		if _, err := tbl.InsertRecord([]any{row.a, row.b}); err != nil {
			log.Fatalf("insert: %v", err)
		}
	}

	pred := record.Compare{Left: record.AttrRef{Index: 0}, Right: record.Const{Value: int32(2)}, Op: record.OpEq}
	scan, err := tbl.StartScan(pred)
	if err != nil {
		log.Fatalf("start scan: %v", err)
	}
	defer scan.CloseScan()

	rec, err := scan.Next()
	if err != nil {
		log.Fatalf("next: %v", err)
	}
	a, _ := record.GetAttr(schema, 0, rec.Data)
	b, _ := record.GetAttr(schema, 1, rec.Data)
	log.Printf("matched record: a=%v b=%v", a, b)

	if _, err := scan.Next(); err == nil {
		log.Fatalf("expected scan to be exhausted")
	}

	log.Printf("test_expr OK")
}
