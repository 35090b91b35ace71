// Command test_assign3 exercises the record manager: create a table,
// insert, get, update, delete, and confirm the tuple count survives a
// close/reopen cycle.
package main

import (
	"log"
	"os"

	"storagecore/internal/config"
	"storagecore/internal/record"
)

func main() {
	name := "assign3_test.tbl"
	defer os.Remove(name)

	cfg, err := config.Load("storagecore.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	schema := &record.Schema{Attrs: []record.Attribute{
		{Name: "id", Type: record.IntType},
		{Name: "name", Type: record.StringType, Length: 8},
	}}
	if err := record.CreateTable(name, schema); err != nil {
		log.Fatalf("create table: %v", err)
	}

	tbl, err := record.OpenTable(name, cfg.ToTableOptions())
	if err != nil {
		log.Fatalf("open table: %v", err)
	}

	rid, err := tbl.InsertRecord([]any{int32(1), "alice"})
	if err != nil {
		log.Fatalf("insert: %v", err)
	}
	if _, err := tbl.InsertRecord([]any{int32(2), "bob"}); err != nil {
		log.Fatalf("insert: %v", err)
	}

	rec, err := tbl.GetRecord(rid)
	if err != nil {
		log.Fatalf("get record: %v", err)
	}
	name0, err := record.GetAttr(schema, 1, rec.Data)
	if err != nil {
		log.Fatalf("get attr: %v", err)
	}
	log.Printf("record %v: name=%v", rid, name0)

	if err := tbl.UpdateRecord(rid, []any{int32(1), "alicia"}); err != nil {
		log.Fatalf("update: %v", err)
	}
	if err := tbl.DeleteRecord(rid); err != nil {
		log.Fatalf("delete: %v", err)
	}
	if err := tbl.CloseTable(); err != nil {
		log.Fatalf("close: %v", err)
	}

	tbl, err = record.OpenTable(name, cfg.ToTableOptions())
	if err != nil {
		log.Fatalf("reopen: %v", err)
	}
	defer tbl.CloseTable()
	if tbl.GetNumTuples() != 1 {
		log.Fatalf("tuple count after reopen = %d, want 1", tbl.GetNumTuples())
	}

	log.Printf("assign3 OK: tuple count after reopen = %d", tbl.GetNumTuples())
}
