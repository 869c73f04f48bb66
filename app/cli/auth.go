package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crowdpredictor/trafficmap/core/sanitizer"
	"github.com/crowdpredictor/trafficmap/core/validator"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
)

type credentialsInput struct {
	Email    string `form:"email" sanitize:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type registrationInput struct {
	Name     string `form:"name" sanitize:"trim,single_line" validate:"required,max=100"`
	Email    string `form:"email" sanitize:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

// clean sanitizes and validates a flag struct.
func clean(v any) error {
	if err := sanitizer.SanitizeStruct(v); err != nil {
		return err
	}
	return validator.ValidateStruct(v)
}

// readPassword takes the password from the first line of r when the flag is empty.
func readPassword(r io.Reader, flag string) string {
	if flag != "" {
		return flag
	}
	line, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func (a *App) loginCommand() *cobra.Command {
	var in credentialsInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session in the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			in.Password = readPassword(cmd.InOrStdin(), in.Password)
			if err := clean(&in); err != nil {
				return err
			}

			res, err := a.backend.Login(ctx, backend.Credentials{Email: in.Email, Password: in.Password})
			if err != nil {
				if msg := backend.Message(err); msg != "" {
					return fmt.Errorf("login failed: %s", msg)
				}
				return err
			}
			sess, err := a.sessions.Login(ctx, a.profile, res.Token, res.User)
			if err != nil {
				return fmt.Errorf("store session: %w", err)
			}

			user, _ := sess.User()
			return a.emit(cmd, user, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Logged in as %s <%s>\n", user.Name, user.Email)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&in.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "account password, read from stdin when empty")
	return cmd
}

func (a *App) registerCommand() *cobra.Command {
	var in registrationInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Password = readPassword(cmd.InOrStdin(), in.Password)
			if err := clean(&in); err != nil {
				return err
			}

			err := a.backend.Register(cmd.Context(), backend.Registration{Name: in.Name, Email: in.Email, Password: in.Password})
			if err != nil {
				if msg := backend.Message(err); msg != "" {
					return fmt.Errorf("registration failed: %s", msg)
				}
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Registration successful. You can now log in.")
			return err
		},
	}
	cmd.Flags().StringVarP(&in.Name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&in.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "account password, read from stdin when empty")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.sessions.Logout(cmd.Context(), a.profile); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return err
		},
	}
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			user, _ := sess.User()
			return a.emit(cmd, user, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s <%s> (id %s)\n", user.Name, user.Email, user.ID)
				return err
			})
		},
	}
}
