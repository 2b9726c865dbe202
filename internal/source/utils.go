package source

import (
	"path/filepath"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// normalizeNFC приводит содержимое к NFC, чтобы интернирование
// идентификаторов не зависело от формы кодирования.
func normalizeNFC(content []byte) ([]byte, bool) {
	if norm.NFC.IsNormal(content) {
		return content, false
	}
	return norm.NFC.Bytes(content), true
}

func buildLineIndex(content []byte) []uint32 {
	var out []uint32
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) //nolint:gosec // file sizes are bounded by uint32 offsets
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, offset uint32) LineCol {
	line := uint32(1)
	lineStart := uint32(0)
	for _, nl := range lineIdx {
		if offset <= nl {
			break
		}
		line++
		lineStart = nl + 1
	}
	return LineCol{Line: line, Col: offset - lineStart + 1}
}

func normalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// AbsolutePath возвращает абсолютный путь.
func AbsolutePath(path string) (string, error) {
	return filepath.Abs(path)
}
