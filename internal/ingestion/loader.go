// Package ingestion reads the record file given on the command line. Each
// line is one record; its zero-based line number is its position.
package ingestion

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/logger"
)

// maxRecordSize bounds a single line. Longer lines fail the load rather than
// being split into several records.
const maxRecordSize = 16 * 1024 * 1024

// LoadRecords reads every line of the file at path.
func LoadRecords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening data file %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("reading data file %s: %w", path, err)
	}
	logger.WithComponent("ingestion").Info("records loaded",
		"path", path,
		"records", len(records),
	)
	return records, nil
}

// ReadRecords splits r into lines. Line terminators (\n or \r\n) are removed
// and a final terminator does not produce an extra empty record.
func ReadRecords(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	records := make([]string, 0, 64)
	for scanner.Scan() {
		records = append(records, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
