// Package bookdetails implements the Book Details query use case: a single catalog entry by id.
package bookdetails
