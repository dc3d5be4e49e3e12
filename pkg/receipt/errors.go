package receipt

import "strings"

// MissingFieldsError names the required fields the pipeline could not
// recover. It is the only failure the extraction core surfaces; everything
// upstream is absorbed as an empty field.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
