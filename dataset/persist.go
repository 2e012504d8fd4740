package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/reusee/e5"
)

var wrap = e5.Wrap.With(e5.WrapStacktrace)

const (
	startedAtPrefix = "# STARTED AT: "
	updatesHeader   = "# UPDATES"
)

// Save writes the start snapshot and the retained updates as text, one JSON
// document per line.
func (d *Dataset) Save(w io.Writer) error {
	d.mu.RLock()
	start := d.ring.Start()
	records := d.ring.Records()
	startedAt := d.startedAt
	d.mu.RUnlock()

	bw := bufio.NewWriter(w)
	secs := float64(startedAt.UnixNano()) / float64(time.Second)
	startJSON, err := json.Marshal(start)
	if err != nil {
		return fmt.Errorf("encode start snapshot: %w", err)
	}
	fmt.Fprintf(bw, "%s%s\n%s\n\n%s\n", startedAtPrefix, strconv.FormatFloat(secs, 'f', -1, 64), startJSON, updatesHeader)
	for _, record := range records {
		line, err := json.Marshal(map[string]DB{
			record.Name: record.Delta,
		})
		if err != nil {
			return fmt.Errorf("encode update of %s: %w", record.Name, err)
		}
		bw.Write(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func (d *Dataset) SaveFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return wrap(err)
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = wrap(e)
		}
	}()
	if err := d.Save(f); err != nil {
		return wrap(err)
	}
	d.logger.Info("dataset saved", "path", path)
	return nil
}

// Load rebuilds a dataset from the output of Save. Updates are replayed with
// their recorded timestamps.
func Load(r io.Reader, options ...Option) (*Dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) < 2 || !strings.HasPrefix(lines[0], startedAtPrefix) {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedLog)
	}

	secs, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(lines[0], startedAtPrefix)), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: start time: %v", ErrMalformedLog, err)
	}
	var start map[string]DB
	if err := json.Unmarshal([]byte(lines[1]), &start); err != nil {
		return nil, fmt.Errorf("%w: start snapshot: %v", ErrMalformedLog, err)
	}

	d, err := New(options...)
	if err != nil {
		return nil, err
	}
	d.startedAt = time.Unix(0, int64(secs*float64(time.Second)))
	for name, db := range start {
		if err := checkReserved(name); err != nil {
			return nil, err
		}
		d.ring.start[name] = db
		d.dbs[name] = db
	}

	for i, line := range lines[2:] {
		line = strings.TrimSpace(line)
		if line == "" || line == updatesHeader {
			continue
		}
		var record map[string]DB
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedLog, i+3, err)
		}
		if len(record) != 1 {
			return nil, fmt.Errorf("%w: line %d: want one database per update, got %d", ErrMalformedLog, i+3, len(record))
		}
		for name, delta := range record {
			if err := d.apply(name, delta); err != nil {
				return nil, err
			}
		}
	}

	d.logger.Info("dataset loaded", "databases", len(d.dbs), "updates", d.ring.Len())
	return d, nil
}

func LoadFile(path string, options ...Option) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap(err)
	}
	defer f.Close()
	d, err := Load(f, options...)
	if err != nil {
		return nil, wrap(err)
	}
	return d, nil
}
