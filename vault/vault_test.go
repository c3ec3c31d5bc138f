package vault

import (
	"path/filepath"
	"testing"

	"github.com/codahale/gubbins/assert"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func testStore() *Store {
	return &Store{
		Version: Version,
		Users: []User{
			{
				Name: "user",
				Sites: []Site{
					{Name: "example.com", Counter: 1, Type: 2, Options: HasUsername | RequiresLogin},
					{
						Name:    "bank.example",
						Counter: 3,
						Type:    1,
						Options: HasRecovery | HasAnswers,
						Answers: []string{"maiden", "teacher"},
					},
				},
			},
			{Name: "Robert Lee Mitchell"},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	want := testStore()

	data, err := want.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	got := NewStore()
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatal(diff)
	}
}

func TestLayout(t *testing.T) {
	t.Parallel()

	s := &Store{
		Version: Version,
		Users: []User{
			{
				Name: "u",
				Sites: []Site{
					{Name: "s", Counter: 2, Type: 5, Options: HasUsername},
				},
			},
		},
	}

	data, err := s.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "layout", []byte{
		Version,
		1,        // user count
		1, 'u',   // username
		1,        // site count
		1, 's',   // site name
		2,        // counter
		5,        // type
		HasUsername,
	}, data)
}

func TestUninitialized(t *testing.T) {
	t.Parallel()

	err := NewStore().UnmarshalBinary([]byte{0xff, 0xff, 0xff, 0xff})

	assert.Equal(t, "error", ErrUninitialized, err, cmpopts.EquateErrors())
}

func TestTruncated(t *testing.T) {
	t.Parallel()

	data, err := testStore().MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i < len(data); i++ {
		if err := NewStore().UnmarshalBinary(data[:i]); err == nil {
			t.Errorf("truncation at %d not detected", i)
		}
	}
}

func TestAnswersRequireFlag(t *testing.T) {
	t.Parallel()

	// Answers without HasAnswers are not serialized.
	s := &Store{
		Version: Version,
		Users: []User{
			{Name: "u", Sites: []Site{{Name: "s", Answers: []string{"dropped"}}}},
		},
	}

	data, err := s.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	got := NewStore()
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "answers", 0, len(got.Users[0].Sites[0].Answers))
}

func TestUserLookup(t *testing.T) {
	t.Parallel()

	s := testStore()

	assert.Equal(t, "missing user", (*User)(nil), s.User("nobody"))
	assert.Equal(t, "existing user", "user", s.User("user").Name)
	assert.Equal(t, "missing site", (*Site)(nil), s.User("user").Site("nope"))
	assert.Equal(t, "existing site", uint8(3), s.User("user").Site("bank.example").Counter)

	u := s.AddUser("new")
	assert.Equal(t, "added user", u, s.User("new"))
	assert.Equal(t, "idempotent add", u.Name, s.AddUser("new").Name)

	assert.Equal(t, "remove", true, s.RemoveUser("new"))
	assert.Equal(t, "remove missing", false, s.RemoveUser("new"))
}

func TestLoadSave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vault.bin")

	empty, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "missing file is empty store", 0, len(empty.Users))

	want := testStore()
	if err := want.Save(path); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatal(diff)
	}
}
