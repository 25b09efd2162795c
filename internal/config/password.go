package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

var (
	ErrNotTerminal      = errors.New("stdin is not a terminal: pass --password or set NEUTARO_PASSWORD")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordNotSet   = errors.New("password not set: call PromptForPassword at startup")
)

// PromptForPassword prompts the user for a password in the terminal.
// The password is read without echoing (hidden input).
// Caller must zero the returned slice after use for security.
func PromptForPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNotTerminal
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	return raw, nil
}

// PasswordReader resolves a password from a flag value, the environment or
// an interactive prompt, in that order.
type PasswordReader struct {
	Flag   string
	Env    string
	Prompt func(prompt string) ([]byte, error)
}

// NewPasswordReader returns a reader that prompts on the terminal.
func NewPasswordReader(flag string, cfg *Config) *PasswordReader {
	r := &PasswordReader{Flag: flag, Prompt: PromptForPassword}
	if cfg != nil {
		r.Env = cfg.Password
	}
	return r
}

// Read returns the password. With confirm set an interactive password must
// be typed twice.
func (r *PasswordReader) Read(prompt string, confirm bool) ([]byte, error) {
	if r.Flag != "" {
		return []byte(r.Flag), nil
	}
	if r.Env != "" {
		return []byte(r.Env), nil
	}

	password, err := r.Prompt(prompt)
	if err != nil {
		return nil, err
	}
	if !confirm {
		return password, nil
	}

	again, err := r.Prompt("Confirm password: ")
	if err != nil {
		clear(password)
		return nil, err
	}
	defer clear(again)
	if !bytes.Equal(password, again) {
		clear(password)
		return nil, ErrPasswordMismatch
	}
	return password, nil
}

// ReadLine reads one line of non-secret input such as a seed phrase from r.
func ReadLine(r io.Reader) ([]byte, error) {
	var buf []byte
	b := make([]byte, 1)
	for {
		n, err := r.Read(b)
		if n > 0 {
			if b[0] == '\n' {
				break
			}
			buf = append(buf, b[0])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			clear(buf)
			return nil, err
		}
	}
	return bytes.TrimRight(buf, "\r"), nil
}

// PasswordHolder keeps the password entered at server startup.
type PasswordHolder struct {
	mu       sync.RWMutex
	password []byte
}

// NewPasswordHolder takes ownership of password.
func NewPasswordHolder(password []byte) *PasswordHolder {
	return &PasswordHolder{password: password}
}

// Bytes returns a copy of the stored password.
// Caller must zero the returned slice after use for security.
func (h *PasswordHolder) Bytes() ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.password) == 0 {
		return nil, ErrPasswordNotSet
	}
	out := make([]byte, len(h.password))
	copy(out, h.password)
	return out, nil
}

// Wipe zeroes the stored password.
func (h *PasswordHolder) Wipe() {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.password)
	h.password = nil
}
