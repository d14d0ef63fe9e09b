package spellcheck

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// Misspelling is a single word the speller rejected together with its
// suggested replacements.
type Misspelling struct {
	Word        string   `json:"word"`
	Suggestions []string `json:"suggestions"`
}

// ValidationError reports misspelled words. It matches common.ErrorValidation.
type ValidationError struct {
	Words []Misspelling
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Words))
	for _, w := range e.Words {
		parts = append(parts, fmt.Sprintf("%s -> %s", w.Word, strings.Join(w.Suggestions, ", ")))
	}
	return "spelling errors: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrorValidation
}

// Merge joins the words of several validation errors into one, skipping nils.
// It returns nil when nothing was found.
func Merge(errs ...*ValidationError) *ValidationError {
	var words []Misspelling
	for _, e := range errs {
		if e != nil {
			words = append(words, e.Words...)
		}
	}
	if len(words) == 0 {
		return nil
	}
	return &ValidationError{Words: words}
}
