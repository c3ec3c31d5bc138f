// Package vault implements the byte-oriented store that hosts use to persist
// user and site preferences. The layout is a schema version byte, a user
// count, and nested length-prefixed records; strings are a u8 length followed
// by the bytes. The store holds no secrets: site passwords are re-derived,
// never written.
package vault

import (
	"bytes"
	"encoding"
	"errors"
	"os"
)

// Version is the current schema version.
const Version = 1

// Uninitialized is the byte value of erased storage; a store starting with it
// has never been written.
const Uninitialized = 0xff

// Site option bits.
const (
	HasUsername = 1 << iota
	HasRecovery
	HasAnswers
	RequiresLogin
)

var (
	// ErrUninitialized is returned when the storage has never been written.
	ErrUninitialized = errors.New("vault: uninitialized storage")

	// ErrBadRecord is returned when the storage is truncated or a count or
	// string overflows its record.
	ErrBadRecord = errors.New("vault: malformed record")
)

// A Site is one site's saved preferences.
type Site struct {
	Name    string
	Counter uint8
	Type    uint8
	Options uint8
	Answers []string
}

// A User is a named identity and its sites.
type User struct {
	Name  string
	Sites []Site
}

// Site returns the named site record, or nil.
func (u *User) Site(name string) *Site {
	for i := range u.Sites {
		if u.Sites[i].Name == name {
			return &u.Sites[i]
		}
	}

	return nil
}

// A Store is the full persisted state.
type Store struct {
	Version uint8
	Users   []User
}

// NewStore returns an empty store at the current schema version.
func NewStore() *Store {
	return &Store{Version: Version}
}

// User returns the named user record, or nil.
func (s *Store) User(name string) *User {
	for i := range s.Users {
		if s.Users[i].Name == name {
			return &s.Users[i]
		}
	}

	return nil
}

// AddUser appends a user record and returns it. Adding an existing name
// returns the existing record.
func (s *Store) AddUser(name string) *User {
	if u := s.User(name); u != nil {
		return u
	}

	s.Users = append(s.Users, User{Name: name})

	return &s.Users[len(s.Users)-1]
}

// RemoveUser deletes the named user record, reporting whether it existed.
func (s *Store) RemoveUser(name string) bool {
	for i := range s.Users {
		if s.Users[i].Name == name {
			s.Users = append(s.Users[:i], s.Users[i+1:]...)
			return true
		}
	}

	return false
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > 0xfe {
		return ErrBadRecord
	}

	buf.WriteByte(uint8(len(s)))
	buf.WriteString(s)

	return nil
}

func (s *Store) MarshalBinary() ([]byte, error) {
	if len(s.Users) > 0xfe {
		return nil, ErrBadRecord
	}

	buf := bytes.NewBuffer(nil)
	buf.WriteByte(s.Version)
	buf.WriteByte(uint8(len(s.Users)))

	for _, u := range s.Users {
		if err := writeString(buf, u.Name); err != nil {
			return nil, err
		}

		if len(u.Sites) > 0xfe {
			return nil, ErrBadRecord
		}

		buf.WriteByte(uint8(len(u.Sites)))

		for _, site := range u.Sites {
			if err := writeString(buf, site.Name); err != nil {
				return nil, err
			}

			buf.WriteByte(site.Counter)
			buf.WriteByte(site.Type)
			buf.WriteByte(site.Options)

			if site.Options&HasAnswers != 0 {
				if len(site.Answers) > 0xfe {
					return nil, ErrBadRecord
				}

				buf.WriteByte(uint8(len(site.Answers)))

				for _, answer := range site.Answers {
					if err := writeString(buf, answer); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	return buf.Bytes(), nil
}

// A reader is a cursor over the raw store bytes.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) read8() (uint8, error) {
	if r.pos >= len(r.data) {
		return 0, ErrBadRecord
	}

	b := r.data[r.pos]
	r.pos++

	return b, nil
}

func (r *reader) readString() (string, error) {
	n, err := r.read8()
	if err != nil {
		return "", err
	}

	if r.pos+int(n) > len(r.data) {
		return "", ErrBadRecord
	}

	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)

	return s, nil
}

func (s *Store) UnmarshalBinary(data []byte) error {
	r := &reader{data: data}

	version, err := r.read8()
	if err != nil {
		return err
	}

	if version == Uninitialized {
		return ErrUninitialized
	}

	userCount, err := r.read8()
	if err != nil {
		return err
	}

	users := make([]User, 0, userCount)

	for i := 0; i < int(userCount); i++ {
		var u User

		if u.Name, err = r.readString(); err != nil {
			return err
		}

		siteCount, err := r.read8()
		if err != nil {
			return err
		}

		u.Sites = make([]Site, 0, siteCount)

		for j := 0; j < int(siteCount); j++ {
			var site Site

			if site.Name, err = r.readString(); err != nil {
				return err
			}

			if site.Counter, err = r.read8(); err != nil {
				return err
			}

			if site.Type, err = r.read8(); err != nil {
				return err
			}

			if site.Options, err = r.read8(); err != nil {
				return err
			}

			if site.Options&HasAnswers != 0 {
				answerCount, err := r.read8()
				if err != nil {
					return err
				}

				site.Answers = make([]string, 0, answerCount)

				for k := 0; k < int(answerCount); k++ {
					answer, err := r.readString()
					if err != nil {
						return err
					}

					site.Answers = append(site.Answers, answer)
				}
			}

			u.Sites = append(u.Sites, site)
		}

		users = append(users, u)
	}

	s.Version = version
	s.Users = users

	return nil
}

// Load reads a store from a file. A missing file is an empty store.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewStore(), nil
	} else if err != nil {
		return nil, err
	}

	s := NewStore()
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	return s, nil
}

// Save writes the store to a file, readable only by the owner.
func (s *Store) Save(path string) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

var (
	_ encoding.BinaryMarshaler   = &Store{}
	_ encoding.BinaryUnmarshaler = &Store{}
)
