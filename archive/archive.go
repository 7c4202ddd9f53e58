// Package archive packages serialized model files into the zip bundle the
// blazee service expects. Every entry is stored with mode 0644 so the
// inference runtime can read it regardless of how the source files were
// permissioned locally.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// File is one entry of an archive: a relative path and its content.
type File struct {
	Name string
	Data []byte
}

// Build packages files into a compressed zip. Every input file appears
// exactly once in the output, in input order.
func Build(files []File) ([]byte, error) {
	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)
	for _, f := range files {
		hdr := &zip.FileHeader{
			Name:   f.Name,
			Method: zip.Deflate,
		}
		hdr.SetMode(0o644)

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("archive %q: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, fmt.Errorf("archive %q: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extract unpacks an archive produced by [Build]. It is the round-trip
// counterpart used by tests and debugging tools; the service side does the
// real extraction.
func Extract(data []byte) ([]File, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var files []File
	for _, zf := range zr.File {
		r, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("extract %q: %w", zf.Name, err)
		}

		content, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("extract %q: %w", zf.Name, err)
		}

		files = append(files, File{Name: zf.Name, Data: content})
	}
	return files, nil
}
