package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hireboard/hirectl/internal/client/api"
	"github.com/hireboard/hirectl/internal/client/models"
)

// Profile fetches and prints the authenticated user's profile.
func (a *App) Profile(ctx context.Context) error {
	profile, err := a.svc.Profile(ctx)
	if err != nil {
		printAPIError(err)
		return nil
	}
	printProfile(profile)
	return nil
}

// UpdateProfile prompts for the editable fields and submits the change.
// Empty answers leave the corresponding field untouched.
func (a *App) UpdateProfile(ctx context.Context) error {
	upd := models.ProfileUpdate{}
	fields := []struct {
		prompt string
		target *string
	}{
		{"First name (empty to keep)", &upd.FirstName},
		{"Last name (empty to keep)", &upd.LastName},
		{"Phone (empty to keep)", &upd.Phone},
	}
	for _, f := range fields {
		value, err := getSimpleText(a.reader, f.prompt, os.Stdout)
		if err != nil {
			return err
		}
		*f.target = value
	}

	profile, err := a.svc.UpdateProfile(ctx, upd)
	if err != nil {
		printAPIError(err)
		return nil
	}
	printlnFn("Profile updated.")
	printProfile(profile)
	return nil
}

func printProfile(p *models.UserProfile) {
	printlnFn(fmt.Sprintf("%s %s <%s> — %s", p.FirstName, p.LastName, p.Email, p.Role))
}

func printAPIError(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		printlnFn("Request failed: " + apiErr.Message)
		return
	}
	printlnFn("Request failed. Please try again.")
}
