package workload

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParsePool reads one positive integer per line. Blank lines are skipped;
// anything else that is not a positive integer is an error naming the line.
func ParsePool(r io.Reader) ([]int, error) {
	var jobs []int
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing burst %q: %w", line, text, err)
		}
		if v < 1 {
			return nil, fmt.Errorf("line %d: burst must be positive, got %d", line, v)
		}
		jobs = append(jobs, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading job pool: %w", err)
	}
	return jobs, nil
}

// ReadPool loads a job pool file written by WritePool (or by hand).
func ReadPool(path string) ([]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening job pool: %w", err)
	}
	defer func() { _ = file.Close() }()

	jobs, err := ParsePool(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%s: job pool is empty", path)
	}
	return jobs, nil
}

// EncodePool writes jobs one per line.
func EncodePool(w io.Writer, jobs []int) error {
	bw := bufio.NewWriter(w)
	for i, v := range jobs {
		if _, err := fmt.Fprintln(bw, v); err != nil {
			return fmt.Errorf("writing job %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// WritePool persists jobs to path, replacing any existing file.
func WritePool(path string, jobs []int) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating job pool file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing job pool file: %w", cerr)
		}
	}()
	if err := EncodePool(file, jobs); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
