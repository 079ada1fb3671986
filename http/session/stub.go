package session

import (
	"net/http"

	gorilla "github.com/gorilla/sessions"
)

var (
	_ SessionStorer = new(Stub)
	_ gorilla.Store = new(Stub)
)

// A Stub is an in-memory SessionStorer handing out a single session.
// Saving it is a no-op.
type Stub struct {
	s *gorilla.Session
}

func NewStub() *Stub {
	s := new(Stub)
	s.s = gorilla.NewSession(s, "stub")
	return s
}

func (s *Stub) GetSession(r *http.Request) (Sessionable, error) {
	return Session{s.s}, nil
}

func (s *Stub) Get(r *http.Request, name string) (*gorilla.Session, error)               { return s.s, nil }
func (s *Stub) New(r *http.Request, name string) (*gorilla.Session, error)               { return s.s, nil }
func (s *Stub) Save(r *http.Request, w http.ResponseWriter, sess *gorilla.Session) error { return nil }
