package token

import (
	"fmt"
	"os"

	"github.com/jesperkha/aslc/koi/util"
)

type File struct {
	Name  string
	Src   []byte // File source
	Lines []int  // Offsets of beginning of each line, starting at 0.
	Err   error  // Error set on creation. Not returned by contructor for convenience.
}

func NewFile(filename string, src any) *File {
	file := &File{
		Name: filename,
	}

	srcBytes, err := readSource(filename, src)
	if err != nil {
		srcBytes = []byte{}
		file.Err = err
	}

	file.Src = srcBytes
	file.Lines = getLines(srcBytes)
	return file
}

func readSource(filename string, src any) ([]byte, error) {
	if src != nil {
		switch src := src.(type) {
		case string:
			return []byte(src), nil

		case []byte:
			return src, nil

		default:
			return nil, fmt.Errorf("invalid src type")
		}
	}

	return os.ReadFile(filename)
}

// Line returns the source at the given row (line number -1).
func (f *File) Line(row int) string {
	if row >= len(f.Lines) {
		panic("row out of bounds")
	}

	offset := f.Lines[row]
	end := util.FindEndOfLine(f.Src, offset) // last char, or offset-1 on an empty line
	return string(f.Src[offset : end+1])
}

func getLines(src []byte) []int {
	i := 0
	lines := []int{}
	for i < len(src) {
		lines = append(lines, i)
		i = util.FindEndOfLine(src, i)
		i += 2 // Skip last char and newline
	}

	return lines
}
