package sim

import (
	"fmt"
	"strings"
)

// Algorithm names accepted by NewDispatchPolicy.
const (
	AlgorithmFCFS = "fcfs"
	AlgorithmRR   = "rr"
	AlgorithmMRR  = "mrr"
	AlgorithmMHRR = "mhrr"
)

// DispatchPolicy performs one dispatch step of a scheduling discipline on a Simulator.
// A policy instance serves a single run; stateful policies keep per-run tables.
type DispatchPolicy interface {
	Name() string
	Step(s *Simulator) error
}

// validAlgorithms maps accepted algorithm names.
var validAlgorithms = map[string]bool{
	AlgorithmFCFS: true,
	AlgorithmRR:   true,
	AlgorithmMRR:  true,
	AlgorithmMHRR: true,
}

// AllAlgorithms returns every algorithm in canonical run order.
func AllAlgorithms() []string {
	return []string{AlgorithmFCFS, AlgorithmRR, AlgorithmMRR, AlgorithmMHRR}
}

// IsValidAlgorithm returns true if name (case-insensitive) is a known algorithm.
func IsValidAlgorithm(name string) bool {
	return validAlgorithms[strings.ToLower(name)]
}

// ParseAlgorithms normalizes a list of algorithm names, dropping duplicates.
// An empty list selects every algorithm.
func ParseAlgorithms(names []string) ([]string, error) {
	if len(names) == 0 {
		return AllAlgorithms(), nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if !IsValidAlgorithm(n) {
			return nil, fmt.Errorf("unknown algorithm %q (valid: %s)", n, strings.Join(AllAlgorithms(), ", "))
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out, nil
}

// NewDispatchPolicy creates a fresh DispatchPolicy by name.
// Panics on unrecognized names; validate with IsValidAlgorithm first.
func NewDispatchPolicy(name string) DispatchPolicy {
	switch strings.ToLower(name) {
	case AlgorithmFCFS:
		return &FCFSPolicy{}
	case AlgorithmRR:
		return &RoundRobinPolicy{}
	case AlgorithmMHRR:
		return &RoundRobinPolicy{Halved: true}
	case AlgorithmMRR:
		return &ModifiedRoundRobinPolicy{}
	default:
		panic(fmt.Sprintf("unknown algorithm %q", name))
	}
}
