package report

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"
)

var ErrInvalidOverride = errors.New("invalid rule override")

type Op string

const (
	OpLT Op = "lt"
	OpGT Op = "gt"
	// OpFalse matches a boolean metric that is exactly false
	OpFalse Op = "false"
	// OpGTMetric matches when Metric is greater than Other
	OpGTMetric Op = "gt_metric"
)

// Rule appends Message to List when the metric at the dotted path Metric matches
type Rule struct {
	List      string
	Metric    string
	Op        Op
	Threshold float64
	Other     string
	Message   string
	// Status is written to the definition's status key on a match
	Status string
}

// Thresholded reports whether the rule compares against a numeric threshold
func (r Rule) Thresholded() bool {
	return r.Op == OpLT || r.Op == OpGT
}

func number(doc *Document, path string) (float64, bool) {
	v, ok := doc.Lookup(path)
	if !ok {
		return 0, false
	}

	switch v.(type) {
	case string, int, int64, uint64, float64:
	default:
		return 0, false
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}

	return f, true
}

// match evaluates the rule, ok is false when a metric is unavailable
func (r Rule) match(doc *Document, threshold float64) (matched bool, ok bool) {
	switch r.Op {
	case OpLT, OpGT:
		v, ok := number(doc, r.Metric)
		if !ok {
			return false, false
		}
		if r.Op == OpLT {
			return v < threshold, true
		}
		return v > threshold, true
	case OpFalse:
		v, ok := doc.Lookup(r.Metric)
		if !ok {
			return false, false
		}
		b, isBool := v.(bool)
		if !isBool {
			return false, false
		}
		return !b, true
	case OpGTMetric:
		a, ok := number(doc, r.Metric)
		if !ok {
			return false, false
		}
		b, ok := number(doc, r.Other)
		if !ok {
			return false, false
		}
		return a > b, true
	}

	return false, false
}

// Apply evaluates the definition's rules in order against doc.
// It returns the ids of rules skipped because a metric was unavailable.
func (d Definition) Apply(doc *Document, overrides Overrides) []string {
	var skipped []string

	for _, r := range d.Rules {
		threshold := r.Threshold
		if t, ok := overrides[d.RuleID(r)]; ok {
			threshold = t
		}

		matched, ok := r.match(doc, threshold)
		if !ok {
			skipped = append(skipped, d.RuleID(r))
			continue
		}

		if !matched {
			continue
		}

		doc.Append(r.List, r.Message)

		if r.Status != "" && d.Status != nil {
			doc.Set(d.Status.Key, r.Status)
		}
	}

	return skipped
}

// Overrides replaces rule thresholds by rule id
type Overrides map[string]float64

// Validate checks that every override names a thresholded rule of the catalog
func (o Overrides) Validate(c Catalog) error {
	known := map[string]Rule{}
	for _, d := range c {
		for _, r := range d.Rules {
			known[d.RuleID(r)] = r
		}
	}

	var errs []error
	for id := range o {
		r, ok := known[id]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: unknown rule %s", ErrInvalidOverride, id))
			continue
		}

		if !r.Thresholded() {
			errs = append(errs, fmt.Errorf("%w: rule %s has no threshold", ErrInvalidOverride, id))
		}
	}

	return errors.Join(errs...)
}
