package main

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"blog-admin/internal/repository"
)

const minPasswordLen = 8

// repoOpener returns a user repository and a function releasing it
type repoOpener func() (repository.UserRepository, func(), error)

type credentials struct {
	email    string
	password string
}

// NewRootCmd creates the root command; it creates a user when run directly
func NewRootCmd(open repoOpener) *cobra.Command {
	var creds credentials

	rootCmd := &cobra.Command{
		Use:           "createuser --email EMAIL --password PASSWORD",
		Short:         "Create a blog admin account",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, hash, err := creds.prepare()
			if err != nil {
				return err
			}
			repo, release, err := open()
			if err != nil {
				return err
			}
			defer release()

			if _, err := repo.FindByEmail(cmd.Context(), email); err == nil {
				return fmt.Errorf("user %s already exists", email)
			} else if !errors.Is(err, repository.ErrUserNotFound) {
				return err
			}

			user, err := repo.Create(cmd.Context(), email, hash)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
	creds.bind(rootCmd)

	rootCmd.AddCommand(newPasswdCmd(open))
	return rootCmd
}

func newPasswdCmd(open repoOpener) *cobra.Command {
	var creds credentials

	cmd := &cobra.Command{
		Use:   "passwd --email EMAIL --password PASSWORD",
		Short: "Reset the password of an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, hash, err := creds.prepare()
			if err != nil {
				return err
			}
			repo, release, err := open()
			if err != nil {
				return err
			}
			defer release()

			if err := repo.UpdatePassword(cmd.Context(), email, hash); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated password for %s\n", email)
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}

func (c *credentials) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.email, "email", "", "account email")
	cmd.Flags().StringVar(&c.password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
}

// prepare normalizes the email and hashes the password
func (c *credentials) prepare() (string, string, error) {
	email := strings.ToLower(strings.TrimSpace(c.email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", "", fmt.Errorf("invalid email %q", c.email)
	}
	if len(c.password) < minPasswordLen {
		return "", "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(c.password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}
	return email, string(hash), nil
}
