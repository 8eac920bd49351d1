package domain

import "encoding/json"

// Failure is the reason a check could not produce data.
type Failure struct {
	Kind   ErrorKind `json:"kind"`
	Reason string    `json:"reason"`
}

// Outcome is the tagged result of a single check: exactly one of Data or Failure is set.
// A failed outcome is never passed.
type Outcome[T any] struct {
	Data     *T
	Findings []string
	Passed   bool
	Failure  *Failure
}

// Succeed builds a Success outcome.
func Succeed[T any](data T, passed bool, findings []string) Outcome[T] {
	if findings == nil {
		findings = []string{}
	}
	return Outcome[T]{Data: &data, Passed: passed, Findings: findings}
}

// Fail builds a Failure outcome from err, classified against the error taxonomy.
func Fail[T any](err error) Outcome[T] {
	return Outcome[T]{
		Failure:  &Failure{Kind: KindOf(err), Reason: err.Error()},
		Findings: []string{},
	}
}

// OK reports whether the check produced data.
func (o Outcome[T]) OK() bool {
	return o.Failure == nil && o.Data != nil
}

func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	status := "success"
	if !o.OK() {
		status = "failure"
	}
	return json.Marshal(struct {
		Status   string   `json:"status"`
		Passed   bool     `json:"passed"`
		Data     *T       `json:"data,omitempty"`
		Findings []string `json:"findings"`
		Failure  *Failure `json:"failure,omitempty"`
	}{
		Status:   status,
		Passed:   o.OK() && o.Passed,
		Data:     o.Data,
		Findings: o.Findings,
		Failure:  o.Failure,
	})
}
