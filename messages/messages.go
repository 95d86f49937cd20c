// Package messages reads the instruction screens shown between phases.
//
// A message file is plain UTF-8 text. Lines starting with '#' are comments.
// A line starting with the insert marker is replaced by the caller's insert
// text, or dropped when there is none.
package messages

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const InsertMarker = "<--insert-->"

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// IsImage reports whether the message is a picture rather than text.
func IsImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

func Read(path, insert string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("read message: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			switch {
			case strings.HasPrefix(line, "#"):
			case strings.HasPrefix(line, InsertMarker):
				b.WriteString(insert)
			default:
				b.WriteString(line)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read message %s: %w", path, err)
		}
	}

	// Polish diacritics may arrive decomposed depending on the editor.
	return norm.NFC.String(strings.TrimPrefix(b.String(), "\ufeff")), nil
}
