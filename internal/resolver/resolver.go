// Package resolver decides which character a session will play: an existing
// one from the login snapshot or a freshly created one.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/mhf-auth/internal/model"
)

// CreateNewLabel is the synthetic last menu entry.
const CreateNewLabel = "Create new character"

// ErrInvalidSelection indicates the selector returned an index outside the menu.
var ErrInvalidSelection = errors.New("invalid character selection")

// Creator creates a character for the session identified by token.
type Creator interface {
	CreateCharacter(ctx context.Context, token string) (*model.Character, error)
}

// Selector lets the user pick one of items; def is the preselected index.
type Selector interface {
	Select(prompt string, items []string, def int) (int, error)
}

// Selection is the outcome of Resolve.
type Selection struct {
	ID        uint32
	Character model.Character
	Created   bool
}

// Resolver picks or creates the session character.
type Resolver struct {
	creator  Creator
	selector Selector
	log      *zap.Logger
}

// New constructs a Resolver. A nil logger disables logging.
func New(creator Creator, selector Selector, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{creator: creator, selector: selector, log: log}
}

// Resolve returns the character for the session. With no characters a new one is
// created without asking; otherwise the user chooses among the characters and a
// trailing "create new" entry.
func (r *Resolver) Resolve(ctx context.Context, token string, characters []model.Character) (Selection, error) {
	if len(characters) == 0 {
		r.log.Info("no characters found, creating one")
		return r.create(ctx, token)
	}

	items := MenuItems(characters)
	idx, err := r.selector.Select("Select a character", items, 0)
	if err != nil {
		return Selection{}, fmt.Errorf("read character selection: %w", err)
	}
	switch {
	case idx == len(characters):
		return r.create(ctx, token)
	case idx < 0 || idx > len(characters):
		return Selection{}, fmt.Errorf("%w: %d of %d", ErrInvalidSelection, idx, len(items))
	}

	id := characters[idx].ID
	ch, ok := find(characters, id)
	if !ok {
		return Selection{}, fmt.Errorf("%w: character %d not in snapshot", ErrInvalidSelection, id)
	}
	r.log.Info("character selected",
		zap.Uint32("id", id),
		zap.String("name", ch.Name),
		zap.Bool("never_logged_in", ch.NeverLoggedIn()),
	)
	return Selection{ID: id, Character: ch}, nil
}

func (r *Resolver) create(ctx context.Context, token string) (Selection, error) {
	ch, err := r.creator.CreateCharacter(ctx, token)
	if err != nil {
		return Selection{}, err
	}
	return Selection{ID: ch.ID, Character: *ch, Created: true}, nil
}

// MenuItems renders characters as "<name> (ID: <id>)" followed by CreateNewLabel.
func MenuItems(characters []model.Character) []string {
	items := make([]string, 0, len(characters)+1)
	for _, c := range characters {
		items = append(items, fmt.Sprintf("%s (ID: %d)", c.Name, c.ID))
	}
	return append(items, CreateNewLabel)
}

func find(characters []model.Character, id uint32) (model.Character, bool) {
	for _, c := range characters {
		if c.ID == id {
			return c, true
		}
	}
	return model.Character{}, false
}
