package crm

import (
	"context"

	"github.com/yungbote/clientcontacts-backend/internal/pkg/validation"
)

func createClientRules() *validation.Pipeline[CreateClientCommand] {
	return validation.NewPipeline[CreateClientCommand]("crm.CreateClient",
		validation.Struct[CreateClientCommand](validation.Messages{
			"Name.notblank": "Client name is required.",
			"Name.max":      "Client name must not exceed 200 characters.",
		}),
	)
}

func createContactRules(store Store) *validation.Pipeline[CreateContactCommand] {
	return validation.NewPipeline[CreateContactCommand]("crm.CreateContact",
		validation.Struct[CreateContactCommand](validation.Messages{
			"Name.notblank":    "Name is required.",
			"Name.max":         "Name must not exceed 100 characters.",
			"Surname.notblank": "Surname is required.",
			"Surname.max":      "Surname must not exceed 100 characters.",
			"Email.notblank":   "Email is required.",
			"Email.email":      "A valid email address is required.",
			"Email.max":        "Email must not exceed 254 characters.",
		}),
		validation.Must[CreateContactCommand]("email", "This email address is already in use.", uniqueEmail(store)),
	)
}

func uniqueEmail(store Store) func(ctx context.Context, cmd CreateContactCommand) (bool, error) {
	return func(ctx context.Context, cmd CreateContactCommand) (bool, error) {
		s, err := store.Begin(ctx)
		if err != nil {
			return false, err
		}
		defer func() { _ = s.Rollback() }()
		exists, err := s.Contacts().EmailExists(ctx, cmd.Email)
		if err != nil {
			return false, err
		}
		return !exists, nil
	}
}
