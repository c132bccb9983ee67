package commands

import (
	"fmt"
	"os"
	"time"

	"checkers/internal/client/api"
	"checkers/internal/client/display"

	"golang.org/x/term"
)

func (r *Registry) registerRemoteCommands() {
	r.Register(&Command{
		Name:        "remote",
		ShortName:   "r",
		Description: "Use an analysis server for engine moves",
		Usage:       "remote [url|off]",
		Handler:     remoteHandler,
	})

	r.Register(&Command{
		Name:        "health",
		ShortName:   ".",
		Description: "Check analysis server health",
		Usage:       "health",
		Handler:     healthHandler,
	})

	r.Register(&Command{
		Name:        "login",
		ShortName:   "i",
		Description: "Log in to the analysis server as an operator",
		Usage:       "login <username>",
		Handler:     loginHandler,
	})

	r.Register(&Command{
		Name:        "purge",
		ShortName:   "p",
		Description: "Empty the analysis server's cache (operator only)",
		Usage:       "purge",
		Handler:     purgeHandler,
	})
}

func remoteHandler(s Session, args []string) error {
	out := s.Output()
	if len(args) == 0 {
		if remote := s.GetRemote(); remote != nil {
			fmt.Fprintf(out, "Engine: remote (%s)\n", remote.BaseURL)
		} else {
			fmt.Fprintln(out, "Engine: local")
		}
		return nil
	}

	if args[0] == "off" {
		s.SetRemote(nil)
		s.SetUsername("")
		fmt.Fprintln(out, "Engine: local")
		return nil
	}

	s.SetRemote(api.New(args[0], out))
	s.SetUsername("")
	fmt.Fprintf(out, "Engine: remote (%s)\n", args[0])
	return nil
}

func currentRemote(s Session) (*api.Client, error) {
	remote := s.GetRemote()
	if remote == nil {
		return nil, fmt.Errorf("no analysis server configured: use 'remote <url>'")
	}
	return remote, nil
}

func healthHandler(s Session, args []string) error {
	remote, err := currentRemote(s)
	if err != nil {
		return err
	}
	resp, err := remote.Health()
	if err != nil {
		return err
	}

	out := s.Output()
	fmt.Fprintf(out, "%sServer Health:%s\n", display.Cyan, display.Reset)
	fmt.Fprintf(out, "  Status:   %s\n", resp.Status)
	fmt.Fprintf(out, "  Time:     %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Storage:  %s\n", resp.Storage)
	fmt.Fprintf(out, "  Queue:    %d\n", resp.Queue)
	fmt.Fprintf(out, "  Analyses: %d pending\n", resp.Analyses)
	return nil
}

func loginHandler(s Session, args []string) error {
	remote, err := currentRemote(s)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: login <username>")
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("login needs an interactive terminal")
	}
	out := s.Output()
	fmt.Fprint(out, display.Yellow+"Password: "+display.Reset)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	resp, err := remote.Login(args[0], string(pw))
	if err != nil {
		return err
	}
	s.SetUsername(resp.Username)
	fmt.Fprintf(out, "%sLogged in as %s (session expires %s)%s\n",
		display.Green, resp.Username, resp.ExpiresAt.Local().Format("2006-01-02 15:04"), display.Reset)
	return nil
}

func purgeHandler(s Session, args []string) error {
	remote, err := currentRemote(s)
	if err != nil {
		return err
	}
	if s.GetUsername() == "" {
		return fmt.Errorf("operator login required: use 'login <username>'")
	}

	resp, err := remote.PurgeCache()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Output(), "Removed %d cached analyses\n", resp.Deleted)
	return nil
}
