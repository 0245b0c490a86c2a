package catalog

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const maxPublicationYear = 9999

// Book is a catalog entry together with its counter of copies available for reservation.
// Empty strings and a zero PublicationYear mean the optional value is absent.
type Book struct {
	ID              uuid.UUID
	Title           string
	Author          string
	Genre           string
	PublicationYear uint
	Description     string
	CoverRef        string
	Quantity        int
}

// BookFields is the write model for creating and editing a book.
// Quantity is only used on creation; editing never touches the counter.
type BookFields struct {
	Title           string
	Author          string
	Genre           string
	PublicationYear uint
	Description     string
	CoverRef        string
	Quantity        int
}

// BuildBookFields trims all text values.
func BuildBookFields(
	title string,
	author string,
	genre string,
	publicationYear uint,
	description string,
	coverRef string,
	quantity int,
) BookFields {
	return BookFields{
		Title:           strings.TrimSpace(title),
		Author:          strings.TrimSpace(author),
		Genre:           strings.TrimSpace(genre),
		PublicationYear: publicationYear,
		Description:     strings.TrimSpace(description),
		CoverRef:        strings.TrimSpace(coverRef),
		Quantity:        quantity,
	}
}

// Validate checks the fields for creation and editing.
// Title and author are required, the initial quantity must not be negative.
func (f BookFields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return errors.Join(ErrInvalidBook, errors.New("title is required"))
	}

	if strings.TrimSpace(f.Author) == "" {
		return errors.Join(ErrInvalidBook, errors.New("author is required"))
	}

	if f.PublicationYear > maxPublicationYear {
		return errors.Join(ErrInvalidBook, errors.New("publication year is out of range"))
	}

	if f.Quantity < 0 {
		return errors.Join(ErrInvalidBook, errors.New("quantity must not be negative"))
	}

	return nil
}

// IsAvailable reports whether at least one copy can be reserved.
func (b Book) IsAvailable() bool {
	return b.Quantity >= 1
}
