package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials signals wrong email or password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrWeakPassword signals password doesn't meet requirements.
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
)

// Service handles authentication business logic and tracks the current
// session. Subscribers receive a change notification on every sign-in,
// sign-out, and when the initial session restore resolves, mirroring the
// identity-provider subscription contract.
type Service struct {
	repo      Repository
	jwtSecret []byte

	mu          sync.Mutex
	current     *Identity
	resolved    bool
	subscribers map[int]func(*Identity)
	nextSubID   int
}

// Session bundles the token and identity returned after a successful sign-in.
type Session struct {
	Token    string
	Identity Identity
}

// NewService creates a new authentication service. The session starts
// unresolved until RestoreSession or a sign-in/out settles it.
func NewService(repo Repository, jwtSecret string) *Service {
	return &Service{
		repo:        repo,
		jwtSecret:   []byte(jwtSecret),
		subscribers: make(map[int]func(*Identity)),
	}
}

// Register creates a new account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}
	if req.Email == "" || req.FullName == "" {
		return nil, fmt.Errorf("auth: email and full_name are required")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, CreateUserParams{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// SignIn authenticates the credentials, makes the user the current identity,
// and notifies subscribers.
func (s *Service) SignIn(ctx context.Context, req LoginRequest) (Session, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID, user.Email)
	if err != nil {
		return Session{}, fmt.Errorf("auth: generate token: %w", err)
	}

	identity := Identity{UID: user.ID, Email: user.Email}
	s.setCurrent(&identity)

	return Session{Token: token, Identity: identity}, nil
}

// SignOut clears the current identity and notifies subscribers.
func (s *Service) SignOut() {
	s.setCurrent(nil)
}

// RestoreSession replays a persisted token at boot. A valid token makes its
// user the current identity; an empty or invalid token resolves the session
// as signed out. Either way the initial state is settled and subscribers are
// notified.
func (s *Service) RestoreSession(ctx context.Context, token string) error {
	if token == "" {
		s.setCurrent(nil)
		return nil
	}

	userID, _, err := s.VerifyToken(token)
	if err != nil {
		s.setCurrent(nil)
		return fmt.Errorf("auth: restore session: %w", err)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		s.setCurrent(nil)
		return fmt.Errorf("auth: restore session: %w", err)
	}

	s.setCurrent(&Identity{UID: user.ID, Email: user.Email})
	return nil
}

// Subscribe registers fn for session change notifications and returns the
// matching unsubscribe. If the session is already resolved, fn is invoked
// once with the current identity from a separate goroutine.
func (s *Service) Subscribe(fn func(*Identity)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	resolved := s.resolved
	current := cloneIdentity(s.current)
	s.mu.Unlock()

	if resolved {
		go fn(current)
	}

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// CurrentIdentity returns the signed-in identity, or nil.
func (s *Service) CurrentIdentity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneIdentity(s.current)
}

// VerifyToken validates a JWT token and returns the user id and email.
func (s *Service) VerifyToken(tokenString string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return "", "", fmt.Errorf("auth: parse token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["user_id"].(string)
		if !ok {
			return "", "", fmt.Errorf("auth: invalid user_id in token")
		}
		email, ok := claims["email"].(string)
		if !ok {
			return "", "", fmt.Errorf("auth: invalid email in token")
		}
		return userID, email, nil
	}

	return "", "", fmt.Errorf("auth: invalid token")
}

func (s *Service) setCurrent(identity *Identity) {
	s.mu.Lock()
	s.current = cloneIdentity(identity)
	s.resolved = true
	fns := make([]func(*Identity), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	// Notify outside the lock; each subscriber gets its own copy.
	for _, fn := range fns {
		fn(cloneIdentity(identity))
	}
}

// generateToken creates a JWT token for the user.
func (s *Service) generateToken(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(24 * time.Hour).Unix(), // Token expires in 24 hours
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func cloneIdentity(identity *Identity) *Identity {
	if identity == nil {
		return nil
	}
	copied := *identity
	return &copied
}
