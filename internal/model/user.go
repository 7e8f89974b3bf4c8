package model

import "time"

type User struct {
	ID        string
	Name      string
	Age       int
	Married   bool
	Comment   string
	CreatedAt time.Time
}
