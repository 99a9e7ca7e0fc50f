package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeTable(t *testing.T, table map[int]string) string {
	t.Helper()
	type entry struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	var entries []entry
	for id, name := range table {
		entries = append(entries, entry{ID: id, Name: name})
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("marshal table: %v", err)
	}
	path := filepath.Join(t.TempDir(), "blocks.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	return path
}

func TestVerifyBlockTable(t *testing.T) {
	full := make(map[int]string, len(generatorBlocks))
	for id, name := range generatorBlocks {
		full[id] = name
	}

	if err := verifyBlockTable(writeTable(t, full)); err != nil {
		t.Errorf("complete table rejected: %v", err)
	}

	missing := make(map[int]string, len(full))
	for id, name := range full {
		missing[id] = name
	}
	delete(missing, 56)
	if err := verifyBlockTable(writeTable(t, missing)); err == nil {
		t.Error("table missing diamond ore accepted")
	}

	renamed := make(map[int]string, len(full))
	for id, name := range full {
		renamed[id] = name
	}
	renamed[17] = "oak_log"
	if err := verifyBlockTable(writeTable(t, renamed)); err == nil {
		t.Error("table with drifted block name accepted")
	}
}

func TestVerifyBlockTableMissingFile(t *testing.T) {
	if err := verifyBlockTable(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("missing table file accepted")
	}
}
