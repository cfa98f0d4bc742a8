package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/rsharma2005/civicbridge/internal/common"
)

// Register prompts for account details and creates the user. A successful
// registration also activates the session, matching the store contract.
func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	department, err := GetSimpleText(a.reader, "Enter department", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	user, err := a.store.RegisterUser(ctx, name, email, department, password)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateIdentity) {
			printlnFn("A user with this email already exists")
		} else {
			log.Printf("Registration unsuccessful: %s", err.Error())
		}
		return err
	}

	a.userEmail = user.Email
	printlnFn(fmt.Sprintf("Registered and logged in as %s", user.Email))
	return nil
}

// Login prompts for credentials and activates the matching session.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	session, err := a.store.LoginUser(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			printlnFn("Invalid email or password")
		} else {
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return err
	}

	a.userEmail = session.Email
	printlnFn(fmt.Sprintf("Logged in as %s (%s)", session.Name, session.Department))
	return nil
}

// Logout clears the session pointer. Safe to call when not logged in.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.LogoutUser(ctx); err != nil {
		log.Printf("Logout unsuccessful: %s", err.Error())
		return err
	}
	a.userEmail = ""
	printlnFn("Logged out")
	return nil
}

// WhoAmI shows the active session, if any.
func (a *App) WhoAmI(ctx context.Context) error {
	session, err := a.store.CurrentUser(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if session == nil {
		printlnFn("Not logged in")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s>, %s", session.Name, session.Email, session.Department))
	return nil
}
