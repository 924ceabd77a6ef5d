package domain

import (
	"sort"

	"github.com/google/uuid"
)

// RecordFix describes the fields repaired on one record by the mojibake job.
type RecordFix struct {
	Model   string
	ID      uuid.UUID
	Fields  []string
	Methods map[string]int
}

// RepairReport aggregates the outcome of one mojibake repair run.
type RepairReport struct {
	Records       []RecordFix
	RecordsFixed  int
	FieldsChanged int
	Methods       map[string]int
}

// Add records fix and updates the totals.
func (r *RepairReport) Add(fix RecordFix) {
	if r.Methods == nil {
		r.Methods = map[string]int{}
	}
	r.Records = append(r.Records, fix)
	r.RecordsFixed++
	r.FieldsChanged += len(fix.Fields)
	for name, n := range fix.Methods {
		r.Methods[name] += n
	}
}

// MethodNames returns the names in Methods in lexical order.
func (f RecordFix) MethodNames() []string {
	return sortedKeys(f.Methods)
}

// MethodNames returns the names in Methods in lexical order.
func (r RepairReport) MethodNames() []string {
	return sortedKeys(r.Methods)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
