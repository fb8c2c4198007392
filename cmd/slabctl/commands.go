package main

import (
	"errors"
	"fmt"
	"os"

	"go-slab-ws/internal/apperr"
	"go-slab-ws/internal/config"
	"go-slab-ws/internal/logger"
	"go-slab-ws/internal/model"
	"go-slab-ws/internal/repository"
	"go-slab-ws/internal/service"
	"go-slab-ws/internal/session"
	"go-slab-ws/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// passwordEnv is read when --password is omitted
const passwordEnv = "SLABCTL_PASSWORD"

type env struct {
	db  *gorm.DB
	log *zap.Logger
}

func open(configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, err
	}
	db, err := database.ConnectDB(cfg.Database, zl)
	if err != nil {
		return nil, err
	}
	return &env{db: db, log: zl}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = e.log.Sync()
}

func (e *env) users() service.UserService {
	return service.NewUserService(repository.NewUserRepo(e.db), session.NewStore(0))
}

func password(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if p := os.Getenv(passwordEnv); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("password required: pass --password or set %s", passwordEnv)
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(*configPath)
			if err != nil {
				return err
			}
			defer e.close()

			if err := database.Migrate(e.db); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	}
}

func newCreateUserCmd(configPath *string) *cobra.Command {
	var username, pw, role string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a login account",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := password(pw)
			if err != nil {
				return err
			}
			r := model.Role(role)
			if !r.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}

			e, err := open(*configPath)
			if err != nil {
				return err
			}
			defer e.close()

			// an operator acts with admin rights without logging in
			sess := &session.Session{Username: "slabctl", Role: model.RoleAdmin}
			user, err := e.users().CreateUser(sess, &service.CreateUserRequest{Username: username, Password: secret, Role: r})
			if err != nil {
				return err
			}
			cmd.Printf("created %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&pw, "password", "", "password (or "+passwordEnv+")")
	cmd.Flags().StringVar(&role, "role", string(model.RoleMarker), "admin or marker")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newResetPasswordCmd(configPath *string) *cobra.Command {
	var username, pw string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := password(pw)
			if err != nil {
				return err
			}

			e, err := open(*configPath)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.users().SetPassword(username, secret); err != nil {
				if errors.Is(err, apperr.ErrNotFound) {
					return fmt.Errorf("user %s not found", username)
				}
				return err
			}
			cmd.Printf("password for %s has been reset\n", username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "admin", "login name")
	cmd.Flags().StringVar(&pw, "password", "", "new password (or "+passwordEnv+")")
	return cmd
}
