package query

import (
	"errors"
	"fmt"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

var (
	ErrPerPageOutOfRange = fmt.Errorf("per_page must be between 1 and %d", MaxPerPage)
	ErrInvalidPerPage    = errors.New("per_page must be an integer")
)

// Page is a validated 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number to at least 1 and checks that size is within
// 1..MaxPerPage.
func NewPage(number, size int) (Page, error) {
	if size < 1 || size > MaxPerPage {
		return Page{}, ErrPerPageOutOfRange
	}
	if number < 1 {
		number = 1
	}
	return Page{Number: number, Size: size}, nil
}

// TotalPages returns ceil(total/size), or 1 when size is zero.
func TotalPages(total, size int) int {
	if size == 0 {
		return 1
	}
	return (total + size - 1) / size
}
