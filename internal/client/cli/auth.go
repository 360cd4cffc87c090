package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/agentdesk/internal/client/services"
	"github.com/dmitrijs2005/agentdesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the profile fields and a password, creates the
// account and logs in with it. The password slice is wiped before return.
func (a *App) Register(ctx context.Context) error {
	var in services.RegisterInput
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Enter email", &in.Email},
		{"Enter username", &in.Username},
		{"Enter first name", &in.FirstName},
		{"Enter last name", &in.LastName},
	} {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Register(ctx, in, string(password))
	if err != nil {
		fmt.Fprintf(a.out, "Registration failed: %s\n", err)
		return err
	}

	a.userName = user.Username
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", user.DisplayName())
	return nil
}

// Login prompts for username or email and password.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter username or email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Login(ctx, identifier, string(password))
	if err != nil {
		a.userName = ""
		fmt.Fprintf(a.out, "Login failed: %s\n", err)
		return err
	}

	a.userName = user.Username
	fmt.Fprintf(a.out, "Logged in as %s\n", user.DisplayName())
	return nil
}

// Logout ends the session locally even if the server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.Logout(ctx)
	a.userName = ""
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Refresh renews the credential pair ahead of expiry.
func (a *App) Refresh(ctx context.Context) error {
	user, err := a.authService.RefreshToken(ctx)
	if err != nil {
		a.userName = ""
		fmt.Fprintf(a.out, "Refresh failed, please log in again: %s\n", err)
		return err
	}
	a.userName = user.Username
	fmt.Fprintln(a.out, "Session refreshed")
	return nil
}

// WhoAmI prints the stored user.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.authService.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> id=%s verified=%t\n", user.DisplayName(), user.Email, user.ID, user.IsVerified)
	return nil
}
