package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/veikkola/phonebook/internal/models"
)

// personSource coerces a resolver source to a person. Resolvers hand over
// both values (list elements) and pointers (single lookups).
func personSource(src interface{}) (*models.Person, error) {
	switch p := src.(type) {
	case *models.Person:
		return p, nil
	case models.Person:
		return &p, nil
	default:
		return nil, fmt.Errorf("unexpected person source %T", src)
	}
}

func (s *Schema) defineAddressType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Address",
		Fields: graphql.Fields{
			"street": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"city":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})
}

func (s *Schema) definePersonType(addressType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Person",
		Fields: graphql.Fields{
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					person, err := personSource(p.Source)
					if err != nil {
						return nil, err
					}
					return person.Name, nil
				},
			},
			"phone": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					person, err := personSource(p.Source)
					if err != nil {
						return nil, err
					}
					// An unset phone is null on the wire, not "".
					if !person.HasPhone() {
						return nil, nil
					}
					return person.Phone, nil
				},
			},
			// address is computed from the stored street and city at
			// read time; it is not a stored entity.
			"address": &graphql.Field{
				Type: addressType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					person, err := personSource(p.Source)
					if err != nil {
						return nil, err
					}
					return person.Address(), nil
				},
			},
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					person, err := personSource(p.Source)
					if err != nil {
						return nil, err
					}
					return person.ID, nil
				},
			},
		},
	})
}

func (s *Schema) defineUserType(personType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"friends": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(personType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, ok := p.Source.(*models.User)
					if !ok {
						return nil, fmt.Errorf("unexpected user source %T", p.Source)
					}
					// Never null on the wire, even for a fresh account.
					if user.Friends == nil {
						return []models.Person{}, nil
					}
					return user.Friends, nil
				},
			},
			"id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		},
	})
}

func (s *Schema) defineTokenType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Token",
		Fields: graphql.Fields{
			"value": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})
}
