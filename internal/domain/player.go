package domain

import "github.com/google/uuid"

// UnknownPlayerName is used when a player registers without a name.
const UnknownPlayerName = "Unknown"

// PlayerProps carries the fields needed to build or restore a Player.
type PlayerProps struct {
	ID    string
	Email string
	Name  string
}

// Player is the identity of a quizz taker. At most one exists per email.
type Player struct {
	id    string
	email string
	name  string
}

// NewPlayer validates props and builds a Player, generating an ID when none is given.
func NewPlayer(props PlayerProps) (*Player, error) {
	if props.ID == "" {
		props.ID = uuid.NewString()
	} else if err := ValidateID("id", props.ID); err != nil {
		return nil, err
	}
	if err := ValidateEmail(props.Email); err != nil {
		return nil, err
	}
	if err := ValidateName(props.Name); err != nil {
		return nil, err
	}
	name := props.Name
	if name == "" {
		name = UnknownPlayerName
	}
	return &Player{id: props.ID, email: props.Email, name: name}, nil
}

func (p *Player) ID() string    { return p.id }
func (p *Player) Email() string { return p.email }
func (p *Player) Name() string  { return p.name }
