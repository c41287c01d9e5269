package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/localauth/internal/common"
	"github.com/dmitrijs2005/localauth/internal/services"
)

var errQuit = errors.New("quit")

type choice int

const (
	choiceUnknown choice = iota
	choiceLogin
	choiceRegister
	choiceQuit
)

func parseChoice(s string) choice {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "l", "login":
		return choiceLogin
	case "2", "r", "register":
		return choiceRegister
	case "3", "q", "quit", "exit":
		return choiceQuit
	default:
		return choiceUnknown
	}
}

// resultMessage is the single place results become user-facing text.
// Success has no message; it leads to the secure view instead.
func resultMessage(r services.Result) string {
	switch r {
	case services.UsernameTaken:
		return "Username taken"
	case services.InvalidUser:
		return "User does not exist"
	case services.InvalidPassword:
		return "Incorrect password"
	case services.InvalidUsername:
		return "Username must be valid UTF-8"
	default:
		return ""
	}
}

func (a *App) mainMenu(ctx context.Context) error {
	for {
		fmt.Fprintln(a.out, "\n== Welcome ==")
		if err := a.loginScreen(ctx); err != nil {
			return err
		}
	}
}

// loginScreen runs one round of the menu. Business outcomes are printed, as
// is a damaged record; input errors, quit requests and other storage faults
// are returned.
func (a *App) loginScreen(ctx context.Context) error {
	fmt.Fprintln(a.out, "\n== Login ==")

	username, err := GetSimpleText(a.reader, "Username: ", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.reader, a.stdinFd, "Password: ", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	answer, err := GetSimpleText(a.reader, "1. [Login]\n2. [Register]\n3. [Quit]\n", a.out)
	if err != nil {
		return err
	}

	var res services.Result
	switch parseChoice(answer) {
	case choiceLogin:
		res, err = a.authService.Authenticate(ctx, username, password)
	case choiceRegister:
		res, err = a.authService.Register(ctx, username, password)
	case choiceQuit:
		return errQuit
	default:
		fmt.Fprintln(a.out, "Unknown choice:", answer)
		return nil
	}
	if errors.Is(err, common.ErrStorageCorrupt) {
		a.log.Error(ctx, "stored credentials are damaged", "username", username, "error", err)
		fmt.Fprintln(a.out, "Stored credentials for this user are damaged")
		return nil
	}
	if err != nil {
		a.log.Error(ctx, "authentication failed with storage error", "error", err)
		return err
	}

	if res == services.Success {
		return a.secure(username)
	}
	fmt.Fprintln(a.out, resultMessage(res))
	return nil
}

// secure is the view gated behind a successful login or registration.
func (a *App) secure(username string) error {
	fmt.Fprintln(a.out, "\n* Top secret information")
	fmt.Fprintf(a.out, "Welcome, %s\n", username)
	_, err := GetSimpleText(a.reader, "[press enter to go back]", a.out)
	return err
}
