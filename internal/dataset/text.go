package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/telescope/internal/event"
)

// tokenReader yields whitespace-separated tokens together with the line
// they were found on.
type tokenReader struct {
	sc     *bufio.Scanner
	line   int
	fields []string
}

func newTokenReader(r io.Reader) *tokenReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &tokenReader{sc: sc}
}

// next returns the next token, or io.EOF when the input is exhausted.
func (t *tokenReader) next() (string, error) {
	for len(t.fields) == 0 {
		if !t.sc.Scan() {
			if err := t.sc.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		t.line++
		t.fields = strings.Fields(t.sc.Text())
	}
	tok := t.fields[0]
	t.fields = t.fields[1:]
	return tok, nil
}

// int reads the next token as an integer. what names the value in errors.
func (t *tokenReader) int(what string) (int64, error) {
	tok, err := t.next()
	if err == io.EOF {
		return 0, &LoadError{Code: ErrCodeCount, Message: fmt.Sprintf("unexpected end of input reading %s", what), Line: t.line}
	}
	if err != nil {
		return 0, &LoadError{Code: ErrCodeNotFound, Message: err.Error(), Line: t.line}
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, &LoadError{Code: ErrCodeSyntax, Message: fmt.Sprintf("%s: %q is not an integer", what, tok), Line: t.line}
	}
	return v, nil
}

// ReadText reads the plain text format: a header "<count> <dim>" followed by
// count records of "<time> <c0> ... <cD-1>". Tokens may be split across
// lines freely. Any token after the last record is an error.
func ReadText(r io.Reader, name string) (*Dataset, error) {
	tr := newTokenReader(r)

	count, err := tr.int("record count")
	if err != nil {
		return nil, err
	}
	dim, err := tr.int("dimensionality")
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, &LoadError{Code: ErrCodeCount, Message: fmt.Sprintf("negative record count %d", count), Line: tr.line}
	}
	if le := checkDim(dim); le != nil {
		le.Line = tr.line
		return nil, le
	}

	ds := &Dataset{Name: CleanName(name), Dim: int(dim), Events: make([]event.Event, 0, min(count, 1<<20)), Sorted: true}
	for i := int64(0); i < count; i++ {
		what := fmt.Sprintf("record %d time", i+1)
		t, err := tr.int(what)
		if err != nil {
			return nil, err
		}
		coords := make([]int64, dim)
		for j := range coords {
			coords[j], err = tr.int(fmt.Sprintf("record %d coordinate %d", i+1, j))
			if err != nil {
				return nil, err
			}
		}
		if n := len(ds.Events); n > 0 && t < ds.Events[n-1].Time {
			ds.Sorted = false
		}
		ds.Events = append(ds.Events, event.Event{Time: t, Coordinates: coords})
	}

	if tok, err := tr.next(); err == nil {
		return nil, &LoadError{
			Code:    ErrCodeCount,
			Message: fmt.Sprintf("header declares %d records but more data follows (%q)", count, tok),
			Line:    tr.line,
		}
	} else if err != io.EOF {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: err.Error(), Line: tr.line}
	}

	return ds, nil
}

// WriteText writes ds in the plain text format, one record per line.
func WriteText(w io.Writer, ds *Dataset) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", len(ds.Events), ds.Dim)
	for _, e := range ds.Events {
		bw.WriteString(strconv.FormatInt(e.Time, 10))
		for _, c := range e.Coordinates {
			bw.WriteByte(' ')
			bw.WriteString(strconv.FormatInt(c, 10))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
