// Package graphql implements the phonebook's Query and Mutation contract:
// authorization checks, input validation, friend-list maintenance, and
// error classification. The schema's type, field, and argument names are
// the wire contract and must stay exactly as existing clients know them.
package graphql

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"

	"github.com/veikkola/phonebook/internal/auth"
	"github.com/veikkola/phonebook/internal/middleware"
	"github.com/veikkola/phonebook/internal/storage"
)

// authRequired is the authorization table: every mutation declares here
// whether it needs an authenticated user. The check runs uniformly before
// dispatch (see withAuth); resolvers never re-check on their own.
var authRequired = map[string]bool{
	"personCount": false,
	"allPersons":  false,
	"findPerson":  false,
	"me":          false,
	"addPerson":   true,
	"editNumber":  true,
	"createUser":  false,
	"login":       false,
	"addAsFriend": true,
}

// Schema wires the resolver engine to its collaborators and holds the
// executable GraphQL schema.
type Schema struct {
	schema graphql.Schema
	store  storage.Store
	login  *auth.LoginService
	logger *slog.Logger
}

// New builds the executable schema against the given store and login
// service.
func New(store storage.Store, login *auth.LoginService, logger *slog.Logger) (*Schema, error) {
	s := &Schema{
		store:  store,
		login:  login,
		logger: logger,
	}

	yesNoEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "YesNo",
		Values: graphql.EnumValueConfigMap{
			"YES": &graphql.EnumValueConfig{Value: "YES"},
			"NO":  &graphql.EnumValueConfig{Value: "NO"},
		},
	})

	addressType := s.defineAddressType()
	personType := s.definePersonType(addressType)
	userType := s.defineUserType(personType)
	tokenType := s.defineTokenType()

	queryFields := graphql.Fields{
		"personCount": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.Int),
			Resolve: s.resolvePersonCount,
		},
		"allPersons": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(personType))),
			Args: graphql.FieldConfigArgument{
				"phone": &graphql.ArgumentConfig{Type: yesNoEnum},
			},
			Resolve: s.resolveAllPersons,
		},
		"findPerson": &graphql.Field{
			Type: personType,
			Args: graphql.FieldConfigArgument{
				"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: s.resolveFindPerson,
		},
		"me": &graphql.Field{
			Type:    userType,
			Resolve: s.resolveMe,
		},
	}

	mutationFields := graphql.Fields{
		"addPerson": &graphql.Field{
			Type: personType,
			Args: graphql.FieldConfigArgument{
				"name":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"phone":  &graphql.ArgumentConfig{Type: graphql.String},
				"street": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"city":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: s.resolveAddPerson,
		},
		"editNumber": &graphql.Field{
			Type: personType,
			Args: graphql.FieldConfigArgument{
				"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"phone": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: s.resolveEditNumber,
		},
		"createUser": &graphql.Field{
			Type: userType,
			Args: graphql.FieldConfigArgument{
				"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: s.resolveCreateUser,
		},
		"login": &graphql.Field{
			Type: tokenType,
			Args: graphql.FieldConfigArgument{
				"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: s.resolveLogin,
		},
		"addAsFriend": &graphql.Field{
			Type: userType,
			Args: graphql.FieldConfigArgument{
				"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: s.resolveAddAsFriend,
		},
	}

	// Apply the authorization table uniformly before dispatch.
	for name, field := range queryFields {
		field.Resolve = s.withAuth(name, field.Resolve)
	}
	for name, field := range mutationFields {
		field.Resolve = s.withAuth(name, field.Resolve)
	}

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: queryFields,
		}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Mutation",
			Fields: mutationFields,
		}),
	})
	if err != nil {
		return nil, err
	}

	s.schema = schema
	return s, nil
}

// withAuth enforces the authRequired table for the named operation.
func (s *Schema) withAuth(name string, resolve graphql.FieldResolveFn) graphql.FieldResolveFn {
	if !authRequired[name] {
		return resolve
	}
	return func(p graphql.ResolveParams) (interface{}, error) {
		if middleware.CurrentUser(p.Context) == nil {
			s.logger.Warn("Unauthenticated request rejected", "operation", name)
			return nil, errUnauthenticated()
		}
		return resolve(p)
	}
}

// Handler returns the HTTP handler serving the schema. The handler reads
// the request context, so it must sit behind the session middleware.
func (s *Schema) Handler() http.Handler {
	return handler.New(&handler.Config{
		Schema:   &s.schema,
		Pretty:   true,
		GraphiQL: true,
	})
}

// Do executes a query against the schema with the given context and
// variables.
func (s *Schema) Do(ctx context.Context, query string, variables map[string]interface{}) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        ctx,
	})
}
