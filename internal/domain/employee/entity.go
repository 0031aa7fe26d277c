package employee

import "time"

type Employee struct {
	ID       string
	FullName string
	Email    string
	Position *string
	Status   string // 'active', 'resigned'
	JoinDate time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
