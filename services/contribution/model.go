package contribution

import "time"

// Contribution is a voluntary donation towards a student project.
type Contribution struct {
	UID         string
	ProjectUID  string
	Email       string
	AmountCents int64
	Comment     string
	CreatedAt   time.Time
}
