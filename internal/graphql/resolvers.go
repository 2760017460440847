package graphql

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/veikkola/phonebook/internal/auth"
	"github.com/veikkola/phonebook/internal/middleware"
	"github.com/veikkola/phonebook/internal/models"
	"github.com/veikkola/phonebook/internal/storage"
)

// Token is the login result carrying the signed session token.
type Token struct {
	Value string
}

func (s *Schema) resolvePersonCount(p graphql.ResolveParams) (interface{}, error) {
	return s.store.CountPersons(p.Context)
}

func (s *Schema) resolveAllPersons(p graphql.ResolveParams) (interface{}, error) {
	var phoneExists *bool
	if v, ok := p.Args["phone"].(string); ok {
		hasPhone := v == "YES"
		phoneExists = &hasPhone
	}

	persons, err := s.store.ListPersons(p.Context, phoneExists)
	if err != nil {
		return nil, storeError("listing persons failed", "", err)
	}
	if persons == nil {
		persons = []models.Person{}
	}
	return persons, nil
}

func (s *Schema) resolveFindPerson(p graphql.ResolveParams) (interface{}, error) {
	name := p.Args["name"].(string)

	person, err := s.store.GetPersonByName(p.Context, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("finding person failed", name, err)
	}
	return person, nil
}

func (s *Schema) resolveMe(p graphql.ResolveParams) (interface{}, error) {
	user := middleware.CurrentUser(p.Context)
	if user == nil {
		return nil, nil
	}
	return user, nil
}

// resolveAddPerson creates the person and adds it to the current user's
// friends list. The auth table guarantees a current user here.
func (s *Schema) resolveAddPerson(p graphql.ResolveParams) (interface{}, error) {
	currentUser := middleware.CurrentUser(p.Context)
	name := p.Args["name"].(string)

	person := &models.Person{
		Name:   name,
		Street: p.Args["street"].(string),
		City:   p.Args["city"].(string),
	}
	if phone, ok := p.Args["phone"].(string); ok {
		person.Phone = phone
	}

	if err := s.store.CreatePerson(p.Context, person); err != nil {
		s.logger.Warn("addPerson failed", "name", name, "error", err)
		return nil, storeError("saving person failed", name, err)
	}
	if err := s.store.AddFriend(p.Context, currentUser.ID, person.ID); err != nil {
		s.logger.Error("addPerson friend append failed", "name", name, "error", err)
		return nil, storeError("saving user failed", name, err)
	}

	s.logger.Info("Person added", "name", name, "user", currentUser.Username)
	return person, nil
}

func (s *Schema) resolveEditNumber(p graphql.ResolveParams) (interface{}, error) {
	name := p.Args["name"].(string)

	person, err := s.store.GetPersonByName(p.Context, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errNotFound("person not found", name)
	}
	if err != nil {
		return nil, storeError("finding person failed", name, err)
	}

	person.Phone = p.Args["phone"].(string)
	if err := s.store.UpdatePerson(p.Context, person); err != nil {
		s.logger.Warn("editNumber failed", "name", name, "error", err)
		return nil, storeError("editing number failed", name, err)
	}

	return person, nil
}

func (s *Schema) resolveCreateUser(p graphql.ResolveParams) (interface{}, error) {
	username := p.Args["username"].(string)

	user, err := s.login.CreateUser(p.Context, username)
	if err != nil {
		s.logger.Warn("createUser failed", "username", username, "error", err)
		return nil, storeError("creating the user failed", username, err)
	}

	s.logger.Info("User created", "username", username)
	return user, nil
}

func (s *Schema) resolveLogin(p graphql.ResolveParams) (interface{}, error) {
	username := p.Args["username"].(string)
	password := p.Args["password"].(string)

	token, err := s.login.Login(p.Context, username, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.logger.Warn("Login rejected", "username", username)
		return nil, errInvalidCredentials()
	}
	if err != nil {
		s.logger.Error("Login failed", "username", username, "error", err)
		return nil, storeError("login failed", username, err)
	}

	s.logger.Info("User logged in", "username", username)
	return Token{Value: token}, nil
}

// resolveAddAsFriend adds an existing person to the current user's friends
// list. The storage-level add-if-absent makes repeated calls idempotent.
func (s *Schema) resolveAddAsFriend(p graphql.ResolveParams) (interface{}, error) {
	currentUser := middleware.CurrentUser(p.Context)
	name := p.Args["name"].(string)

	person, err := s.store.GetPersonByName(p.Context, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errNotFound("person not found", name)
	}
	if err != nil {
		return nil, storeError("finding person failed", name, err)
	}

	// The storage write is add-if-absent either way; skipping it for a
	// known friend just saves the round trip.
	if !currentUser.IsFriend(person.ID) {
		if err := s.store.AddFriend(p.Context, currentUser.ID, person.ID); err != nil {
			s.logger.Error("addAsFriend failed", "name", name, "error", err)
			return nil, storeError("saving user failed", name, err)
		}
	}

	// Reload so the returned friends list reflects the write.
	user, err := s.store.GetUserByID(p.Context, currentUser.ID, true)
	if err != nil {
		return nil, storeError("loading user failed", name, err)
	}

	s.logger.Info("Friend added", "name", name, "user", user.Username)
	return user, nil
}
