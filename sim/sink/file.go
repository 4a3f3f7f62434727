// Package sink provides durable sim.MetricsSink implementations: flat text
// files per metric, a SQLite store, and a fan-out over several sinks.
package sink

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpu-sched-sim/cpu-sched-sim/sim"
)

// Output file suffixes. The full name is <PREFIX><suffix>, e.g. FCFSWaitTime.txt.
const (
	GroupingSuffix  = "Grouping.txt"
	WaitTimeSuffix  = "WaitTime.txt"
	QueueSizeSuffix = "QueueSize.txt"
	TotalTimeSuffix = "TotalTime.txt"
)

// Prefix returns the file-name prefix for an algorithm ("mhrr" -> "MHRR").
func Prefix(algorithm string) string {
	return strings.ToUpper(algorithm)
}

type flatFile struct {
	file *os.File
	w    *bufio.Writer
}

func (f *flatFile) writeInt(v int) error {
	_, err := fmt.Fprintln(f.w, v)
	return err
}

func (f *flatFile) close() error {
	return errors.Join(f.w.Flush(), f.file.Close())
}

// FileSink writes one integer per line into four files per run: the final
// histogram, and per step the head wait time, the ready-queue size and the
// cumulative time before the step. Existing files are truncated.
type FileSink struct {
	grouping, wait, queue, total *flatFile
}

var _ sim.MetricsSink = (*FileSink)(nil)

// NewFileSink creates dir if needed and opens the four output files.
// Nothing is left open when an error is returned.
func NewFileSink(dir, prefix string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	var opened []*flatFile
	open := func(suffix string) (*flatFile, error) {
		path := filepath.Join(dir, prefix+suffix)
		f, err := os.Create(path)
		if err != nil {
			for _, o := range opened {
				_ = o.close()
			}
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
		ff := &flatFile{file: f, w: bufio.NewWriter(f)}
		opened = append(opened, ff)
		return ff, nil
	}

	s := &FileSink{}
	var err error
	if s.grouping, err = open(GroupingSuffix); err != nil {
		return nil, err
	}
	if s.wait, err = open(WaitTimeSuffix); err != nil {
		return nil, err
	}
	if s.queue, err = open(QueueSizeSuffix); err != nil {
		return nil, err
	}
	if s.total, err = open(TotalTimeSuffix); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileSink) RecordStep(rec sim.StepRecord) error {
	if err := s.wait.writeInt(rec.WaitTime); err != nil {
		return fmt.Errorf("writing wait time: %w", err)
	}
	if err := s.queue.writeInt(rec.QueueSize); err != nil {
		return fmt.Errorf("writing queue size: %w", err)
	}
	if err := s.total.writeInt(rec.TotalTime); err != nil {
		return fmt.Errorf("writing total time: %w", err)
	}
	return nil
}

func (s *FileSink) RecordHistogram(counts []int) error {
	for _, c := range counts {
		if err := s.grouping.writeInt(c); err != nil {
			return fmt.Errorf("writing grouping: %w", err)
		}
	}
	return nil
}

// Close flushes and closes all four files, reporting every failure.
func (s *FileSink) Close() error {
	return errors.Join(s.grouping.close(), s.wait.close(), s.queue.close(), s.total.close())
}
