// Command adduser creates a TyreCheck operator account directly in the
// database.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/tyrecheck/tyrecheck-go/internal/config"
	"github.com/tyrecheck/tyrecheck-go/internal/crypto"
	"github.com/tyrecheck/tyrecheck-go/internal/model"
	"github.com/tyrecheck/tyrecheck-go/internal/repository"
	"github.com/tyrecheck/tyrecheck-go/internal/service"
)

// openUsers connects to the credential store. Tests replace it.
var openUsers = func() (service.UserStore, io.Closer, error) {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return nil, nil, err
	}
	db, err := sql.Open("mysql", repository.DSN(dbCfg))
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repository.NewUserRepository(db), db, nil
}

func main() {
	godotenv.Load()

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	cost := fs.Int("cost", crypto.DefaultHashCost, "bcrypt cost")
	generate := fs.Int("generate", 0, "Generate a random password of this length and print it")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		fmt.Fprintln(stdout, "Usage: adduser -user <username> [-password <password> | -generate <length>] [-cost <n>]")
		fs.PrintDefaults()
		return errors.New("missing required flags: user")
	}

	if *generate != 0 && *passwordFlag != "" {
		return errors.New("-password and -generate are mutually exclusive")
	}

	password := *passwordFlag
	generated := false
	if *generate != 0 {
		var err error
		if password, err = crypto.GeneratePassword(*generate); err != nil {
			return err
		}
		generated = true
	} else if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be empty")
	}

	hasher, err := crypto.NewHasher(*cost)
	if err != nil {
		return err
	}

	users, closer, err := openUsers()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closer.Close()

	auth := service.NewAuthService(users, hasher, nil)
	if err := auth.Register(context.Background(), model.CreateUserRequest{Username: *username, Password: password}); err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			return fmt.Errorf("user %s already exists", *username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully\n", *username)
	if generated {
		fmt.Fprintf(stdout, "Generated password: %s\n", password)
	}
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
