package schema

// Operation tags the outcome of an administrative call, mirroring the
// legacy client contract.
type Operation string

const (
	OperationFail    Operation = "fail"
	OperationSuccess Operation = "success"
	OperationError   Operation = "error"
)

// Failure is the typed error surface for administrative calls: returned,
// never thrown, so the caller can display Reason directly.
type Failure struct {
	Reason    string    `json:"reason"`
	Operation Operation `json:"operation"`
}

// Property describes one field of a class.
type Property struct {
	Name        string `json:"name"`
	DataType    string `json:"dataType"`
	Description string `json:"description,omitempty"`
	// IndexSearchable false excludes the property from the search index;
	// inverted classes use it on the answer field.
	IndexSearchable *bool `json:"indexSearchable,omitempty"`
}

// Class is the definition of one semantic-search collection.
type Class struct {
	Name         string         `json:"class"`
	Description  string         `json:"description,omitempty"`
	Vectorizer   string         `json:"vectorizer"`
	Properties   []Property     `json:"properties"`
	ModuleConfig map[string]any `json:"moduleConfig,omitempty"`
}

// Description is the backend's view of the full schema after setup.
type Description struct {
	Classes []Class `json:"classes"`
}

// Result is the tagged outcome of Setup: exactly one of Schema or Failure
// is set.
type Result struct {
	Schema  *Description `json:"schema,omitempty"`
	Failure *Failure     `json:"failure,omitempty"`
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Failure == nil
}

func ok(d Description) Result {
	return Result{Schema: &d}
}

func failed(reason string, op Operation) Result {
	return Result{Failure: &Failure{Reason: reason, Operation: op}}
}

// QandA is one entry of the hosted FAQ dataset.
type QandA struct {
	Question string `json:"Question"`
	Answer   string `json:"Answer"`
}

// Object is one record to insert into a class.
type Object struct {
	Class      string         `json:"class"`
	Properties map[string]any `json:"properties"`
}

// BatchOutcome summarizes one batch-insert call.
type BatchOutcome struct {
	Inserted int      `json:"inserted"`
	Errors   []string `json:"errors,omitempty"`
}

// SeedResult is the tagged outcome of Seed.
type SeedResult struct {
	Outcome *BatchOutcome `json:"outcome,omitempty"`
	Failure *Failure      `json:"failure,omitempty"`
}

// OK reports whether seeding succeeded.
func (r SeedResult) OK() bool {
	return r.Failure == nil
}
