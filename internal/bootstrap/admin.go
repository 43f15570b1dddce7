// Package bootstrap crea el primer admin del sistema cuando no existe
// ninguno. Sin un admin no hay forma de entrar al panel.
package bootstrap

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/dropDatabas3/secaware/internal/domain/repository"
	"github.com/dropDatabas3/secaware/internal/security/password"
	"github.com/dropDatabas3/secaware/internal/validation"
)

// AdminConfig configura el bootstrap del primer admin.
type AdminConfig struct {
	Admins repository.AdminRepository
	Hasher *password.Hasher

	SkipPrompt    bool // modo no interactivo (flags/env)
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

// CheckAndCreateAdmin crea el primer admin si la tabla está vacía.
// Con admins existentes es no-op.
func CheckAndCreateAdmin(ctx context.Context, cfg AdminConfig) error {
	count, err := cfg.Admins.Count(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: check admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	fmt.Println("No admin users found. Creating the first admin.")

	email, name, pass := cfg.AdminEmail, cfg.AdminName, cfg.AdminPassword
	if !cfg.SkipPrompt {
		email, name, pass, err = PromptAdminCredentials()
		if err != nil {
			return fmt.Errorf("bootstrap: prompt: %w", err)
		}
	}

	return CreateAdmin(ctx, cfg.Admins, cfg.Hasher, email, name, pass)
}

// CreateAdmin valida y persiste un admin nuevo.
func CreateAdmin(ctx context.Context, admins repository.AdminRepository, hasher *password.Hasher, email, name, pass string) error {
	email = validation.NormalizeEmail(email)
	if !validation.ValidEmail(email) {
		return fmt.Errorf("bootstrap: invalid email %q", email)
	}
	if !validation.ValidPassword(pass) {
		return fmt.Errorf("bootstrap: password must be at least %d characters", validation.MinPasswordLength)
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	digest, err := hasher.Hash(ctx, pass)
	if err != nil {
		return fmt.Errorf("bootstrap: hash password: %w", err)
	}

	admin, err := admins.Create(ctx, repository.CreateAdminInput{
		Email:        email,
		DisplayName:  name,
		PasswordHash: digest,
	})
	if err != nil {
		return fmt.Errorf("bootstrap: create admin: %w", err)
	}

	fmt.Printf("Admin %s created (id=%s)\n", admin.Email, admin.ID)
	return nil
}

// PromptAdminCredentials pide email, nombre y password por stdin.
// La password se lee sin eco.
func PromptAdminCredentials() (email, name, pass string, err error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Admin email: ")
	email, err = reader.ReadString('\n')
	if err != nil {
		return "", "", "", err
	}
	email = strings.TrimSpace(email)

	fmt.Print("Admin name: ")
	name, err = reader.ReadString('\n')
	if err != nil {
		return "", "", "", err
	}
	name = strings.TrimSpace(name)

	fmt.Print("Admin password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", "", "", err
	}

	return email, name, string(raw), nil
}
