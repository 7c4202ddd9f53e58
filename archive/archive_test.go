package archive

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTrip(t *testing.T) {
	files := []File{
		{Name: "model.pickle", Data: []byte{0x80, 0x02, 0x00, 0xff}},
		{Name: "deps/helper.py", Data: []byte("import numpy\n")},
		{Name: "deps/empty.py", Data: []byte{}},
	}

	data, err := Build(files)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got, err := Extract(data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(got) != len(files) {
		t.Fatalf("got %d files, want %d", len(got), len(files))
	}
	for i := range files {
		if got[i].Name != files[i].Name {
			t.Errorf("file %d: got name %q, want %q", i, got[i].Name, files[i].Name)
		}
		if !bytes.Equal(got[i].Data, files[i].Data) {
			t.Errorf("file %d (%s): content mismatch: %s", i, files[i].Name, cmp.Diff(files[i].Data, got[i].Data))
		}
	}
}

func TestUniformPermissions(t *testing.T) {
	data, err := Build([]File{
		{Name: "a", Data: []byte("a")},
		{Name: "deps/b", Data: []byte("b")},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}

	for _, zf := range zr.File {
		if mode := zf.Mode().Perm(); mode != 0o644 {
			t.Errorf("%s: got mode %o, want 644", zf.Name, mode)
		}
	}
}

func TestEmptyArchive(t *testing.T) {
	data, err := Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got, err := Extract(data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d files, want 0", len(got))
	}
}
