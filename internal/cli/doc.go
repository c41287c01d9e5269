// Package cli provides the interactive localauth command-line front end.
//
// It wires configuration, the credential store and the authentication
// service, then runs a menu loop: prompt for a username and password, ask
// whether to log in or register, report the outcome, and on success show
// the gated view for that user. The loop ends on EOF or when the Quit
// option is chosen. Usernames and passwords are taken verbatim apart from
// the line ending.
//
// With -list the registered usernames are printed instead and the program
// exits without prompting.
package cli
