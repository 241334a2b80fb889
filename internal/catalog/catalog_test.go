package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/verin/lumitrack/internal/catalog"
	"github.com/verin/lumitrack/internal/chart/parse"
	"github.com/verin/lumitrack/internal/testdata"
)

func TestScanAndList(t *testing.T) {
	dir := t.TempDir()
	chartFile := filepath.Join(dir, "test.trk")
	if err := os.WriteFile(chartFile, []byte(testdata.Source), 0o644); nil != err {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.trk"), []byte("<header>\n"), 0o644); nil != err {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "song.ogg"), []byte("not a chart"), 0o644); nil != err {
		t.Fatal(err)
	}

	cat := catalog.NewDefaultCatalog(filepath.Join(dir, "charts.db"), &parse.DefaultParser{})
	if err := cat.Init(); nil != err {
		t.Fatal("unable to open catalog", err)
	}
	defer cat.Deinit()

	if err := cat.Scan(dir); nil != err {
		t.Fatal("unable to scan directory", err)
	}

	entries, err := cat.List()
	if nil != err {
		t.Fatal(err)
	}
	// The unparseable chart and the audio file are skipped, not fatal.
	if len(entries) != 1 {
		t.Fatal("entry count", len(entries))
	}
	e := entries[0]
	if e.Title != "Test Track" || e.Path != chartFile || e.Tempo != 120 || e.Measures != 8 {
		t.Log("Entry", e)
		t.Fail()
	}
	if e.Sum == "" {
		t.Log("entry is missing its content hash")
		t.Fail()
	}

	// A rescan updates in place rather than duplicating.
	if err := cat.Scan(dir); nil != err {
		t.Fatal(err)
	}
	entries, err = cat.List()
	if nil != err {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Log("entries after rescan", len(entries))
		t.Fail()
	}
}
