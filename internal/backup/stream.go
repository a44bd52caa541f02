package backup

import (
	"archive/zip"
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"iter"
)

// errFileNotFound indicates a file is absent from the archive.
var errFileNotFound = errors.New("file not found in backup")

// maxLine bounds one JSONL record. Recipes with long instructions exceed
// bufio's default.
const maxLine = 4 << 20

// openFile finds and opens a file in a zip archive.
func openFile(zr *zip.Reader, path string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if f.Name == path {
			return f.Open()
		}
	}
	return nil, errFileNotFound
}

// jsonlWriter writes one JSON record per line into a zip entry.
type jsonlWriter struct {
	enc   *json.Encoder
	count int
}

func newJSONLWriter(zw *zip.Writer, path string) (*jsonlWriter, error) {
	w, err := zw.Create(path)
	if err != nil {
		return nil, err
	}
	return &jsonlWriter{enc: json.NewEncoder(w)}, nil
}

// Write appends a record. Encode terminates it with a newline.
func (w *jsonlWriter) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return err
	}
	w.count++
	return nil
}

// readJSONL iterates the records of a JSONL entry. A malformed line yields
// an error and reading continues with the next one.
func readJSONL[T any](rc io.ReadCloser) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		defer rc.Close()

		scanner := bufio.NewScanner(rc)
		scanner.Buffer(make([]byte, 0, 64<<10), maxLine)

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var v T
			if err := json.Unmarshal(line, &v); err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !yield(&v, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(nil, err)
		}
	}
}
