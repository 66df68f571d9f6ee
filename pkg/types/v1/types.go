package v1

import (
	"time"

	"github.com/go-playground/validator"
)

// Document is a plain text file as the store reads and writes it.
type Document struct {
	Path     string    `validate:"required"`
	Content  string    `validate:""`
	Modified time.Time `validate:""`
}

func (d *Document) Validate() error {
	validate := validator.New()
	return validate.Struct(*d)
}

// Size is the encoded length of the content in bytes.
func (d *Document) Size() int { return len(d.Content) }

type SyncStatus string

const (
	StatusUninitialized SyncStatus = "uninitialized"
	StatusOK            SyncStatus = "ok"
	StatusSynchronizing SyncStatus = "synchronizing"
	StatusError         SyncStatus = "error"
)
