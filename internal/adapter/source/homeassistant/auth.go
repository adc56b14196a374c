package homeassistant

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mmcdole/hagallery/internal/domain"
	"golang.org/x/term"
)

// AuthFlow prompts for a long-lived access token and verifies it
type AuthFlow struct {
	logger *slog.Logger
	in     io.Reader
	out    io.Writer

	// readSecret reads hidden input; defaults to term.ReadPassword on a TTY
	readSecret func() (string, error)
}

// NewAuthFlow creates a token authentication flow on stdin/stdout
func NewAuthFlow(logger *slog.Logger) *AuthFlow {
	if logger == nil {
		logger = slog.Default()
	}
	f := &AuthFlow{logger: logger, in: os.Stdin, out: os.Stdout}
	f.readSecret = f.readHidden
	return f
}

// Run prompts for a token and checks it against serverURL. It returns the
// accepted token.
func (f *AuthFlow) Run(ctx context.Context, serverURL string) (string, error) {
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, "Home Assistant Authentication")
	fmt.Fprintln(f.out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintln(f.out, "Create a long-lived access token under your profile's Security tab.")

	fmt.Fprint(f.out, "Access token: ")
	token, err := f.readSecret()
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	fmt.Fprintln(f.out) // newline after hidden input

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("access token cannot be empty")
	}

	fmt.Fprintln(f.out, "Verifying...")
	if err := NewClient(serverURL, token, f.logger).Ping(ctx); err != nil {
		if errors.Is(err, domain.ErrAuthFailed) {
			return "", err
		}
		return "", fmt.Errorf("could not reach server: %w", err)
	}

	fmt.Fprintln(f.out, "Authentication successful!")
	return token, nil
}

// readHidden reads the token without echo when stdin is a terminal
func (f *AuthFlow) readHidden() (string, error) {
	if file, ok := f.in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		b, err := term.ReadPassword(int(file.Fd()))
		return string(b), err
	}
	line, err := bufio.NewReader(f.in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return line, nil
}

// PromptForServerURL prompts the user to enter a Home Assistant URL
func PromptForServerURL(in io.Reader, out io.Writer) (string, error) {
	reader := bufio.NewReader(in)
	fmt.Fprint(out, "Enter your Home Assistant URL (e.g., http://homeassistant.local:8123): ")
	url, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && url != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(url), nil
}
