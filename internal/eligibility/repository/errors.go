package repository

import "errors"

var (
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	ErrTicketNotFound = errors.New("ticket not found")
)
