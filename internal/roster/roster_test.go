package roster

import (
	"errors"
	"regexp"
	"testing"
)

func staticID(id string) func() (string, error) {
	return func() (string, error) { return id, nil }
}

func TestCreatePlayer(t *testing.T) {
	t.Parallel()

	player, err := CreatePlayer(CreateInput{
		Name:    "  Jordan  ",
		Contact: "555-0100",
	}, staticID("player-1"))
	if err != nil {
		t.Fatalf("create player: %v", err)
	}

	if player.ID != "player-1" {
		t.Fatalf("expected generated id, got %q", player.ID)
	}
	if player.Name != "Jordan" {
		t.Fatalf("expected trimmed name, got %q", player.Name)
	}
	if player.Contact != "555-0100" {
		t.Fatalf("expected contact preserved, got %q", player.Contact)
	}
}

func TestCreatePlayerRequiresName(t *testing.T) {
	t.Parallel()

	_, err := CreatePlayer(CreateInput{Name: "   "}, staticID("player-1"))
	if !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestCreatePlayerGeneratesContact(t *testing.T) {
	t.Parallel()

	player, err := CreatePlayer(CreateInput{Name: "Sam"}, staticID("player-2"))
	if err != nil {
		t.Fatalf("create player: %v", err)
	}

	pattern := regexp.MustCompile(`^555-\d{4}$`)
	if !pattern.MatchString(player.Contact) {
		t.Fatalf("expected placeholder contact, got %q", player.Contact)
	}
}

func TestCreatePlayerPropagatesIDError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("entropy exhausted")
	_, err := CreatePlayer(CreateInput{Name: "Sam"}, func() (string, error) {
		return "", wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected id error, got %v", err)
	}
}

func TestCreatePlayerRequiresIDGenerator(t *testing.T) {
	t.Parallel()

	if _, err := CreatePlayer(CreateInput{Name: "Sam"}, nil); err == nil {
		t.Fatal("expected error for nil id generator")
	}
}
