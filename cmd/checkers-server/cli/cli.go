// Package cli implements the "db" mini-app: database lifecycle, analysis
// cache inspection and operator account management.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"checkers/internal/server/storage"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"
	"golang.org/x/term"
)

const minPasswordLength = 8

// out receives command output; tests swap it
var out io.Writer = os.Stdout

// Run is the entry point for the CLI mini-app
func Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, purge, user")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:])
	case "delete":
		return runDelete(args[1:])
	case "query":
		return runQuery(args[1:])
	case "purge":
		return runPurge(args[1:])
	case "user":
		if len(args) < 2 {
			return fmt.Errorf("user subcommand required: add, delete, set-password, set-hash, list")
		}
		return runUser(args[1], args[2:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// openStore parses the common -path flag and opens the database
func openStore(fs *flag.FlagSet, args []string) (*storage.Store, error) {
	path := fs.String("path", "", "Database file path (required)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *path == "" {
		return nil, fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func runInit(args []string) error {
	store, err := openStore(flag.NewFlagSet("init", flag.ContinueOnError), args)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintln(out, "Database initialized")
	return nil
}

func runDelete(args []string) error {
	store, err := openStore(flag.NewFlagSet("delete", flag.ContinueOnError), args)
	if err != nil {
		return err
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintln(out, "Database deleted")
	return nil
}

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	layout := fs.String("layout", "", "Board layout to filter (optional, * for all)")
	turn := fs.String("turn", "", "Side to move to filter: b or w (optional, * for all)")
	limit := fs.Int("limit", 50, "Maximum rows to show (0 for no limit)")

	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.QueryAnalyses(*layout, *turn, *limit)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No cached analyses found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Layout\tTurn\tDepth\tMove\tScore\tNodes\tCreated")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, r := range records {
		move := r.Move
		if move == "" {
			move = "(none)"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%d\t%s\n",
			r.Layout,
			r.Turn,
			r.Depth,
			move,
			r.Score,
			r.Nodes,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	total, err := store.CountAnalyses()
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}
	fmt.Fprintf(out, "\nShowing %d of %d cached analyses\n", len(records), total)
	return nil
}

func runPurge(args []string) error {
	fs := flag.NewFlagSet("purge", flag.ContinueOnError)
	olderThan := fs.Duration("older-than", 0, "Only remove entries older than this (e.g. 168h); 0 removes all")

	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	var deleted int64
	if *olderThan > 0 {
		deleted, err = store.DeleteAnalysesBefore(time.Now().UTC().Add(-*olderThan))
	} else {
		deleted, err = store.PurgeAnalyses()
	}
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	fmt.Fprintf(out, "Removed %d cached analyses\n", deleted)
	return nil
}

func runUser(subcommand string, args []string) error {
	switch subcommand {
	case "add":
		return runUserAdd(args)
	case "delete":
		return runUserDelete(args)
	case "set-password":
		return runUserSetPassword(args)
	case "set-hash":
		return runUserSetHash(args)
	case "list":
		return runUserList(args)
	default:
		return fmt.Errorf("unknown user subcommand: %s", subcommand)
	}
}

// readPassword returns the -password value or prompts without echo
func readPassword(password string, interactive bool, prompt string) (string, error) {
	switch {
	case interactive && password != "":
		return "", fmt.Errorf("cannot use -interactive with -password")
	case interactive:
		fmt.Fprint(out, prompt)
		pwBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		password = string(pwBytes)
	case password == "":
		return "", fmt.Errorf("password required: use -password or -interactive")
	}

	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return password, nil
}

func runUserAdd(args []string) error {
	fs := flag.NewFlagSet("user add", flag.ContinueOnError)
	username := fs.String("username", "", "Username (required)")
	password := fs.String("password", "", "Password")
	hash := fs.String("hash", "", "Pre-computed PHC password hash")
	interactive := fs.Bool("interactive", false, "Interactive password prompt")

	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *username == "" {
		return fmt.Errorf("username required")
	}

	var passwordHash string
	if *hash != "" {
		if *password != "" || *interactive {
			return fmt.Errorf("cannot combine -hash with -password or -interactive")
		}
		if err := auth.ValidatePHCHashFormat(*hash); err != nil {
			return fmt.Errorf("invalid hash format: %w", err)
		}
		passwordHash = *hash
	} else {
		pw, err := readPassword(*password, *interactive, "Enter password: ")
		if err != nil {
			return err
		}
		if passwordHash, err = auth.HashPassword(pw); err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
	}

	record := storage.UserRecord{
		UserID:       uuid.New().String(),
		Username:     strings.ToLower(*username),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(record); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(out, "Operator created:\n  ID: %s\n  Username: %s\n", record.UserID, record.Username)
	return nil
}

func runUserDelete(args []string) error {
	fs := flag.NewFlagSet("user delete", flag.ContinueOnError)
	username := fs.String("username", "", "Username to delete (required)")

	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *username == "" {
		return fmt.Errorf("username required")
	}

	n, err := store.DeleteUserByUsername(*username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user not found: %s", *username)
	}

	fmt.Fprintf(out, "Operator deleted: %s\n", *username)
	return nil
}

func runUserSetPassword(args []string) error {
	fs := flag.NewFlagSet("user set-password", flag.ContinueOnError)
	username := fs.String("username", "", "Username (required)")
	password := fs.String("password", "", "New password")
	interactive := fs.Bool("interactive", false, "Interactive password prompt")

	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *username == "" {
		return fmt.Errorf("username required")
	}
	pw, err := readPassword(*password, *interactive, "Enter new password: ")
	if err != nil {
		return err
	}

	user, err := store.GetUserByUsername(*username)
	if err != nil {
		return fmt.Errorf("user not found: %s", *username)
	}

	passwordHash, err := auth.HashPassword(pw)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := store.UpdateUserPassword(user.UserID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	fmt.Fprintf(out, "Password updated for operator: %s\n", user.Username)
	return nil
}

func runUserSetHash(args []string) error {
	fs := flag.NewFlagSet("user set-hash", flag.ContinueOnError)
	username := fs.String("username", "", "Username (required)")
	hash := fs.String("hash", "", "Password hash (required)")

	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *username == "" || *hash == "" {
		return errors.New("username and hash required")
	}
	if err := auth.ValidatePHCHashFormat(*hash); err != nil {
		return fmt.Errorf("invalid hash format: %w", err)
	}

	user, err := store.GetUserByUsername(*username)
	if err != nil {
		return fmt.Errorf("user not found: %s", *username)
	}
	if err := store.UpdateUserPassword(user.UserID, *hash); err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	fmt.Fprintf(out, "Password hash updated for operator: %s\n", user.Username)
	return nil
}

func runUserList(args []string) error {
	store, err := openStore(flag.NewFlagSet("user list", flag.ContinueOnError), args)
	if err != nil {
		return err
	}
	defer store.Close()

	users, err := store.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Fprintln(out, "No operators found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "User ID\tUsername\tCreated\tLast Login")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, u := range users {
		lastLogin := "never"
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			u.UserID[:8]+"...",
			u.Username,
			u.CreatedAt.Format("2006-01-02 15:04"),
			lastLogin,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal operators: %d\n", len(users))
	return nil
}
