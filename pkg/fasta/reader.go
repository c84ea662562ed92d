package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Parse reads all records from r. Sequence lines are concatenated;
// the header is split into identifier and description at the first space.
func Parse(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		records []Record
		cur     *Record
		seq     strings.Builder
	)
	flush := func() {
		if cur != nil {
			cur.Seq = seq.String()
			records = append(records, *cur)
			seq.Reset()
		}
	}

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, ">") {
			flush()
			id, desc, _ := strings.Cut(text[1:], " ")
			cur = &Record{ID: id, Description: desc}
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("line %d: sequence before first header", line)
		}
		seq.WriteString(strings.TrimSpace(text))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return records, nil
}
