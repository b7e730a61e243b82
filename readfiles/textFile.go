package readfiles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/utils"
)

var ErrMissingKey = errors.New("missing key")

// TextFileParser reads named values from a key/value text file. Each entry
// has the form
//
//	name = v11 v12 ...
//	       v21 v22 ...;
//
// and may span lines up to the closing semicolon. Lines starting with % or #
// are comments, as is anything after them on a line.
type TextFileParser struct {
	Name    string
	entries map[string]string
	order   []string
}

func NewTextFileParser(filename string) (tp *TextFileParser, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(filename); err != nil {
		err = fmt.Errorf("unable to open file %s\n %s", filename, err)
		return
	}
	defer file.Close()
	return ParseText(filename, file)
}

func ParseText(name string, r io.Reader) (tp *TextFileParser, err error) {
	var (
		reader = bufio.NewReader(r)
		key    string
		value  strings.Builder
		open   bool
		line   string
		eof    bool
	)
	tp = &TextFileParser{Name: name, entries: make(map[string]string)}
	closeEntry := func() (err error) {
		if _, ok := tp.entries[key]; ok {
			return fmt.Errorf("%s: duplicate entry [%s]", name, key)
		}
		tp.entries[key] = strings.TrimSpace(value.String())
		tp.order = append(tp.order, key)
		value.Reset()
		open = false
		return
	}
	for !eof {
		if line, eof, err = getLineNoComments(reader); err != nil {
			return nil, err
		}
		for len(line) > 0 {
			if !open {
				ind := strings.Index(line, "=")
				if ind < 0 {
					return nil, fmt.Errorf("%s: badly formed input line [%s], should have an =", name, line)
				}
				if key = strings.TrimSpace(line[:ind]); len(key) == 0 || strings.ContainsAny(key, " \t;") {
					return nil, fmt.Errorf("%s: bad entry name in line [%s]", name, line)
				}
				open = true
				line = line[ind+1:]
			}
			ind := strings.Index(line, ";")
			if ind < 0 {
				value.WriteString(line)
				value.WriteString(" ")
				break
			}
			value.WriteString(line[:ind])
			if err = closeEntry(); err != nil {
				return nil, err
			}
			line = strings.TrimSpace(line[ind+1:])
		}
	}
	if open {
		return nil, fmt.Errorf("%s: entry [%s] is not terminated by ;", name, key)
	}
	return
}

// getLineNoComments returns the next line with comments and surrounding
// blanks removed
func getLineNoComments(reader *bufio.Reader) (line string, eof bool, err error) {
	line, err = reader.ReadString('\n')
	if err == io.EOF {
		eof, err = true, nil
	}
	if err != nil {
		return
	}
	if ind := strings.IndexAny(line, "%#"); ind >= 0 {
		line = line[:ind]
	}
	line = strings.TrimSpace(line)
	return
}

// Keys lists the entry names in file order
func (tp *TextFileParser) Keys() []string { return tp.order }

func (tp *TextFileParser) fields(name string, required bool) (f []string, found bool, err error) {
	var (
		value string
	)
	if value, found = tp.entries[name]; !found {
		if required {
			err = fmt.Errorf("%w: %s has no entry [%s]", ErrMissingKey, tp.Name, name)
		}
		return
	}
	f = strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ','
	})
	return
}

func (tp *TextFileParser) sized(name string, rows, cols int, required bool) (f []string, found bool, err error) {
	if f, found, err = tp.fields(name, required); err != nil || !found {
		return
	}
	if len(f) != rows*cols {
		err = fmt.Errorf("%s: entry [%s] has %d values, need %d x %d", tp.Name, name, len(f), rows, cols)
	}
	return
}

// ReadMatrix reads a rows x cols matrix stored row by row. A missing entry
// that is not required returns a nil matrix.
func (tp *TextFileParser) ReadMatrix(name string, rows, cols int, required bool) (M *mat.Dense, err error) {
	var (
		f     []string
		found bool
	)
	if f, found, err = tp.sized(name, rows, cols, required); err != nil || !found {
		return
	}
	data := make([]float64, len(f))
	for i, s := range f {
		if data[i], err = strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Errorf("%s: entry [%s]: %w", tp.Name, name, err)
		}
	}
	M = mat.NewDense(rows, cols, data)
	return
}

// ReadIMatrix reads an integer matrix stored row by row
func (tp *TextFileParser) ReadIMatrix(name string, rows, cols int, required bool) (M utils.IMatrix, err error) {
	var (
		f     []string
		found bool
	)
	if f, found, err = tp.sized(name, rows, cols, required); err != nil || !found {
		return
	}
	data := make([]int64, len(f))
	for i, s := range f {
		if data[i], err = strconv.ParseInt(s, 10, 64); err != nil {
			return utils.IMatrix{}, fmt.Errorf("%s: entry [%s]: %w", tp.Name, name, err)
		}
	}
	M = utils.NewIMatrix(rows, cols, data)
	return
}

// ReadVector reads n values
func (tp *TextFileParser) ReadVector(name string, n int, required bool) (v []float64, err error) {
	var (
		M *mat.Dense
	)
	if M, err = tp.ReadMatrix(name, 1, n, required); err != nil || M == nil {
		return
	}
	return M.RawRowView(0), nil
}

// ReadScalar reads a single value. A missing entry that is not required
// returns zero.
func (tp *TextFileParser) ReadScalar(name string, required bool) (s float64, err error) {
	var (
		M *mat.Dense
	)
	if M, err = tp.ReadMatrix(name, 1, 1, required); err != nil || M == nil {
		return
	}
	return M.At(0, 0), nil
}

func (tp *TextFileParser) ReadIntScalar(name string, required bool) (s int64, err error) {
	var (
		M utils.IMatrix
	)
	if M, err = tp.ReadIMatrix(name, 1, 1, required); err != nil || M.Empty() {
		return
	}
	return M.At(0, 0), nil
}

// ReadString returns the raw value of an entry
func (tp *TextFileParser) ReadString(name string, required bool) (s string, err error) {
	var (
		found bool
	)
	if s, found = tp.entries[name]; !found && required {
		err = fmt.Errorf("%w: %s has no entry [%s]", ErrMissingKey, tp.Name, name)
	}
	return
}
