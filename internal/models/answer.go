package models

import "sort"

// Answer is the transient value a widget reports for one question. Exactly
// one of Value and Values is set: single-choice and fill-in types use Value,
// multi-select types use Values kept in sorted order.
type Answer struct {
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
}

func SingleAnswer(value string) Answer {
	return Answer{Value: value}
}

// MultiAnswer copies and sorts the selected option letters so the stored
// form is canonical regardless of toggle order.
func MultiAnswer(values []string) Answer {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return Answer{Values: sorted}
}

func (a Answer) IsZero() bool {
	return a.Value == "" && len(a.Values) == 0
}

// ToggleMulti adds option to the set if absent, removes it if present, and
// returns the resulting sorted set.
func ToggleMulti(values []string, option string) []string {
	out := make([]string, 0, len(values)+1)
	found := false
	for _, v := range values {
		if v == option {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, option)
	}
	sort.Strings(out)
	return out
}
