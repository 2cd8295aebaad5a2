// Package roster holds the candidate pool: registered players eligible to be
// invited to games. The collection is append-only; players are never edited
// or removed once registered.
package roster

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Player is one registered candidate.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// CreateInput carries the fields needed to register a player.
type CreateInput struct {
	Name    string
	Contact string
}

// ErrNameRequired indicates registration without a player name.
var ErrNameRequired = errors.New("player name is required")

// CreatePlayer validates input and returns a new Player value. When the
// contact is blank a placeholder phone number is generated so every roster
// entry stays reachable in demo data.
func CreatePlayer(input CreateInput, newID func() (string, error)) (Player, error) {
	if newID == nil {
		return Player{}, errors.New("id generator is required")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Player{}, ErrNameRequired
	}

	contact := strings.TrimSpace(input.Contact)
	if contact == "" {
		generated, err := placeholderContact()
		if err != nil {
			return Player{}, fmt.Errorf("generate contact: %w", err)
		}
		contact = generated
	}

	id, err := newID()
	if err != nil {
		return Player{}, fmt.Errorf("generate player id: %w", err)
	}

	return Player{
		ID:      id,
		Name:    name,
		Contact: contact,
	}, nil
}

// placeholderContact returns a 555-prefixed phone number in the reserved
// fictional range.
func placeholderContact() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("555-%04d", n.Int64()), nil
}
