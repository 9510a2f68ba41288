// Package seed loads a YAML description of users, trips and their activity
// into the database. Fixtures refer to each other by symbolic refs that are
// resolved through a per-run Registry.
package seed

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultFixtures []byte

type Fixtures struct {
	Users       []UserFixture       `yaml:"users"`
	Trips       []TripFixture       `yaml:"trips"`
	Invitations []InvitationFixture `yaml:"invitations"`
	Steps       []StepFixture       `yaml:"steps"`
	Votes       []VoteFixture       `yaml:"votes"`
	Expenses    []ExpenseFixture    `yaml:"expenses"`
}

type UserFixture struct {
	Ref       string `yaml:"ref"`
	Firstname string `yaml:"firstname"`
	Lastname  string `yaml:"lastname"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
}

// TripFixture dates are relative to the seeding time so the default set
// always has upcoming and past trips.
type TripFixture struct {
	Ref          string `yaml:"ref"`
	Owner        string `yaml:"owner"`
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	City         string `yaml:"city"`
	Country      string `yaml:"country"`
	ImageURL     string `yaml:"image_url"`
	StartInDays  int    `yaml:"start_in_days"`
	DurationDays int    `yaml:"duration_days"`
}

// InvitationFixture invites User when set, otherwise the bare Email.
type InvitationFixture struct {
	Trip    string `yaml:"trip"`
	User    string `yaml:"user"`
	Email   string `yaml:"email"`
	Message string `yaml:"message"`
	Status  string `yaml:"status"`
}

type StepFixture struct {
	Ref     string `yaml:"ref"`
	Trip    string `yaml:"trip"`
	Author  string `yaml:"author"`
	City    string `yaml:"city"`
	Country string `yaml:"country"`
}

type VoteFixture struct {
	Step    string  `yaml:"step"`
	Voter   string  `yaml:"voter"`
	Vote    bool    `yaml:"vote"`
	Comment *string `yaml:"comment"`
}

// ExpenseFixture is split equally between the trip's members at the time
// it is seeded.
type ExpenseFixture struct {
	Trip     string `yaml:"trip"`
	Title    string `yaml:"title"`
	Amount   string `yaml:"amount"`
	PaidBy   string `yaml:"paid_by"`
	Category string `yaml:"category"`
}

// Load decodes fixtures, rejecting unknown keys.
func Load(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixtures
	if err := dec.Decode(&fx); err != nil {
		if err == io.EOF {
			return &fx, nil
		}
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}
	return &fx, nil
}

func LoadFile(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the built-in demo data set.
func Default() *Fixtures {
	var fx Fixtures
	if err := yaml.Unmarshal(defaultFixtures, &fx); err != nil {
		panic(fmt.Sprintf("seed: embedded default.yaml is invalid: %v", err))
	}
	return &fx
}
