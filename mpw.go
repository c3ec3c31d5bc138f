// Package mpw implements the Master Password algorithm (Billemont/Lyndir):
// deterministic, stateless derivation of site passwords, usernames, and
// recovery phrases from a user identity and a master secret.
//
// A master key is derived from the identity and password with scrypt
// (N=32768, r=8, p=2), using the sparse-V mixer in the scrypt package so the
// derivation also fits memory-constrained hosts. Each generation then HMACs a
// scope/site/counter/context seed under the master key and renders the result
// through a character-class template. The same inputs always yield the same
// output; no site secrets are ever stored.
package mpw

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sync/atomic"

	"github.com/codahale/mpw/internal/hmac256"
	"github.com/codahale/mpw/scrypt"
)

// Namespace is the algorithm's domain-separation root.
const Namespace = "com.lyndir.masterpassword"

// Scopes separate the derived output spaces from one another.
const (
	ScopeAuthentication = Namespace
	ScopeIdentification = Namespace + ".login"
	ScopeRecovery       = Namespace + ".answer"
	ScopeToken          = Namespace + ".token"
)

// Defaults for derived identifiers when the caller does not override them.
const (
	UsernameCounter = 1
	UsernameType    = Name
	RecoveryCounter = 1
	RecoveryType    = Phrase
)

// Master key scrypt parameters, fixed by the algorithm.
const (
	masterKeyLen = 64
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 2
)

var (
	// ErrNotLoggedIn is returned when an operation needs a master key and the
	// session has none.
	ErrNotLoggedIn = errors.New("mpw: not logged in")

	// ErrUnknownType is returned for a password type outside the session's
	// template sets.
	ErrUnknownType = errors.New("mpw: unknown password type")

	// ErrUnknownClass is returned for a template character class outside the
	// alphabet tables.
	ErrUnknownClass = errors.New("mpw: unknown template character class")
)

// tokenMarker is the site fed to the Raw generation that derives the login
// token.
const tokenMarker = "mpw"

var tokenTick uint32

// A Session holds one identity's master key and the most recent generation.
// Sessions are not safe for concurrent use; independent sessions are.
type Session struct {
	// Extensions enables the PINSix, Vast, and BigPhrase template sets.
	Extensions bool

	// Storage bounds the scrypt mixer's V memory during Login. Nil means a
	// fully populated V array (about 32 MiB).
	Storage *scrypt.MixerConfig

	// TokenNonce supplies the counter for login-token derivation. Nil means a
	// process-wide monotonic tick.
	TokenNonce func() uint32

	masterKey []byte
	token     uint32
	output    []byte
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Login derives the master key for the given identity and password, replacing
// any prior state, and derives the session's login token. It returns the
// session for chaining. Progress may be nil.
func (s *Session) Login(name, password []byte, progress scrypt.ProgressFunc) (*Session, error) {
	s.Logout()

	// seed = NAMESPACE || be32(len(name)) || name
	seed := bytes.NewBuffer(make([]byte, 0, len(Namespace)+4+len(name)))
	_, _ = seed.WriteString(Namespace)
	_ = binary.Write(seed, binary.BigEndian, uint32(len(name)))
	_, _ = seed.Write(name)

	cfg := scrypt.FullConfig(scryptN, scryptR)
	if s.Storage != nil {
		cfg = *s.Storage
	}

	kdf, err := scrypt.New(scryptN, scryptR, scryptP, cfg)
	if err != nil {
		return nil, err
	}

	defer kdf.Close()

	s.masterKey = append([]byte(nil), kdf.Key(password, seed.Bytes(), masterKeyLen, progress)...)

	if err := s.deriveToken(); err != nil {
		s.Logout()
		return nil, err
	}

	return s, nil
}

// deriveToken generates the session's login token: the first four bytes of a
// Raw generation over the project marker under the token scope, read
// little-endian. The derived form is stable across runs for a fixed nonce and
// safe to print.
func (s *Session) deriveToken() error {
	nonce := atomic.AddUint32(&tokenTick, 1)
	if s.TokenNonce != nil {
		nonce = s.TokenNonce()
	}

	raw, err := s.Generate([]byte(tokenMarker), nonce, Raw, nil, ScopeToken)
	if err != nil {
		return err
	}

	s.token = binary.LittleEndian.Uint32(raw)

	s.releaseOutput()

	return nil
}

// IsLoggedIn reports whether the session holds a master key.
func (s *Session) IsLoggedIn() bool {
	return s.masterKey != nil
}

// LoginToken returns the token derived at login. It identifies the session to
// external callers without exposing the master key.
func (s *Session) LoginToken() (uint32, error) {
	if !s.IsLoggedIn() {
		return 0, ErrNotLoggedIn
	}

	return s.token, nil
}

// Logout wipes and releases the master key and any cached output.
func (s *Session) Logout() {
	wipe(s.masterKey)
	s.masterKey = nil
	s.token = 0

	s.releaseOutput()
}

// Generate derives the site key for (site, counter, context, scope) and
// renders it as the requested type. The returned buffer is owned by the
// session and valid until the next Generate or Logout; callers must copy it
// to keep it.
func (s *Session) Generate(site []byte, counter uint32, typ Type, context []byte, scope string) ([]byte, error) {
	if !s.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}

	// seed = scope || be32(len(site)) || site || be32(counter)
	//        [ || be32(len(context)) || context ]
	seed := bytes.NewBuffer(make([]byte, 0, len(scope)+4+len(site)+4+4+len(context)))
	_, _ = seed.WriteString(scope)
	_ = binary.Write(seed, binary.BigEndian, uint32(len(site)))
	_, _ = seed.Write(site)
	_ = binary.Write(seed, binary.BigEndian, counter)

	if len(context) > 0 {
		_ = binary.Write(seed, binary.BigEndian, uint32(len(context)))
		_, _ = seed.Write(context)
	}

	mac := hmac256.New(s.masterKey)
	defer mac.Close()

	mac.Write(seed.Bytes())

	var siteKey [hmac256.Size]byte

	copy(siteKey[:], mac.Sum())
	defer wipe(siteKey[:])

	// The previous output is released before anything can fail, so a failed
	// generation never leaks it.
	s.releaseOutput()

	if typ == Raw {
		s.output = append([]byte(nil), siteKey[:]...)
		return s.output, nil
	}

	list, err := templatesFor(typ, s.Extensions)
	if err != nil {
		return nil, err
	}

	template := list[int(siteKey[0])%len(list)]
	out := make([]byte, len(template))

	for i := 0; i < len(template); i++ {
		chars, err := classChars(template[i])
		if err != nil {
			wipe(out)
			return nil, err
		}

		// Templates longer than 31 characters (BigPhrase) cycle back through
		// the site key.
		out[i] = chars[int(siteKey[(i+1)%len(siteKey)])%len(chars)]
	}

	s.output = out

	return out, nil
}

// Username derives the site's username: counter 1, type Name, under the
// identification scope.
func (s *Session) Username(site []byte) ([]byte, error) {
	return s.Generate(site, UsernameCounter, UsernameType, nil, ScopeIdentification)
}

// Recovery derives a recovery phrase for the site, optionally bound to a
// context such as the security question: counter 1, type Phrase, under the
// recovery scope.
func (s *Session) Recovery(site, context []byte) ([]byte, error) {
	return s.Generate(site, RecoveryCounter, RecoveryType, context, ScopeRecovery)
}

func (s *Session) releaseOutput() {
	wipe(s.output)
	s.output = nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
