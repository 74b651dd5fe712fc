package schema

import "context"

// Manager encapsulates the administrative surface of the search backend.
type Manager interface {
	DeleteClass(ctx context.Context, name string) error
	CreateClass(ctx context.Context, class Class) error
	GetSchema(ctx context.Context) (Description, error)
	BatchInsert(ctx context.Context, objects []Object) (BatchOutcome, error)
}

// DatasetSource fetches the hosted FAQ dataset.
type DatasetSource interface {
	Fetch(ctx context.Context) ([]QandA, error)
}
