package domain

// FAQ is one entry of the static support corpus.
type FAQ struct {
	ID       string
	Question string
	Answer   string
}
