package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	sc "github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/spellcheck"
)

// SpellChecker rejects text with misspellings by returning a
// *spellcheck.ValidationError.
type SpellChecker interface {
	Check(ctx context.Context, text string) error
}

// NoteService implements ownership-scoped note operations. Notes that exist
// but belong to someone else are reported exactly like missing ones.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	speller     SpellChecker
	config      *sc.Config
}

func NewNoteService(db *sql.DB, repomanager repomanager.RepositoryManager, speller SpellChecker, config *sc.Config) *NoteService {
	return &NoteService{
		db:          db,
		repomanager: repomanager,
		speller:     speller,
		config:      config,
	}
}

func (s *NoteService) Create(ctx context.Context, caller *models.User, title, content string) (*models.Note, error) {
	if err := s.checkSpelling(ctx, title, content); err != nil {
		return nil, err
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Note, error) {
		n, err := s.repomanager.Notes(tx).Create(ctx, &models.Note{Title: title, Content: content, OwnerID: caller.ID})
		if err != nil {
			return nil, fmt.Errorf("error creating note: %w", err)
		}
		return n, nil
	})
}

func (s *NoteService) List(ctx context.Context, caller *models.User) ([]*models.Note, error) {
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) ([]*models.Note, error) {
		return s.repomanager.Notes(tx).ListByOwner(ctx, caller.ID)
	})
}

func (s *NoteService) Get(ctx context.Context, caller *models.User, id int64) (*models.Note, error) {
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Note, error) {
		return getOwned(ctx, s.repomanager.Notes(tx), caller, id)
	})
}

// Update replaces title and content of an owned note. Spelling is checked
// before the note is looked up.
func (s *NoteService) Update(ctx context.Context, caller *models.User, id int64, title, content string) (*models.Note, error) {
	if err := s.checkSpelling(ctx, title, content); err != nil {
		return nil, err
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Note, error) {
		repo := s.repomanager.Notes(tx)

		note, err := getOwned(ctx, repo, caller, id)
		if err != nil {
			return nil, err
		}
		note.Title = title
		note.Content = content

		updated, err := repo.Update(ctx, note)
		if err != nil {
			return nil, fmt.Errorf("error updating note: %w", err)
		}
		return updated, nil
	})
}

// Delete removes an owned note and returns its last state.
func (s *NoteService) Delete(ctx context.Context, caller *models.User, id int64) (*models.Note, error) {
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Note, error) {
		repo := s.repomanager.Notes(tx)

		note, err := getOwned(ctx, repo, caller, id)
		if err != nil {
			return nil, err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("error deleting note: %w", err)
		}
		return note, nil
	})
}

type noteGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Note, error)
}

func getOwned(ctx context.Context, repo noteGetter, caller *models.User, id int64) (*models.Note, error) {
	note, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.OwnerID != caller.ID {
		return nil, common.ErrorNotFound
	}
	return note, nil
}

// checkSpelling checks title and content and merges their misspellings.
func (s *NoteService) checkSpelling(ctx context.Context, title, content string) error {
	var found []*spellcheck.ValidationError
	for _, text := range []string{title, content} {
		err := s.speller.Check(ctx, text)
		if err == nil {
			continue
		}
		var verr *spellcheck.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		found = append(found, verr)
	}

	if merged := spellcheck.Merge(found...); merged != nil {
		return merged
	}
	return nil
}
