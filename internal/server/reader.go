package server

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"io"
)

// errLineTooLong is returned for a line longer than the message limit.
// The rest of that line has already been discarded when it is returned.
var errLineTooLong = stderrors.New("message exceeds maximum size")

// lineReader splits input on newlines with a per-line size limit. Unlike
// bufio.Scanner it keeps going after an oversized line.
type lineReader struct {
	r     *bufio.Reader
	limit int
}

func newLineReader(r io.Reader, limit int) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 64*1024), limit: limit}
}

// next returns the next line without its terminator
func (lr *lineReader) next() ([]byte, error) {
	var line []byte
	overflow := false

	for {
		chunk, err := lr.r.ReadSlice('\n')
		if !overflow {
			line = append(line, chunk...)
			// room for a CRLF terminator
			if len(line) > lr.limit+2 {
				overflow = true
				line = nil
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err != nil && (err != io.EOF || (!overflow && len(line) == 0)) {
			return nil, err
		}
		break
	}

	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if overflow || len(line) > lr.limit {
		return nil, errLineTooLong
	}
	return line, nil
}
