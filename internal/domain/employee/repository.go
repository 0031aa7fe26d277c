package employee

import "context"

// EmployeeRepository is the read side of the employee directory. Employee CRUD
// lives in the main dashboard backend; this service only resolves identities
// and headcounts.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// CountActive returns the number of active employees, the denominator for
	// daily absence figures.
	CountActive(ctx context.Context) (int, error)
}
