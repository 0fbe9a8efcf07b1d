// Package input reads command values from flags, stdin, files (@file
// syntax) and interactive huh forms when a flag was left out.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNoTerminal is returned when a prompt is needed but stdin is not a
// terminal.
var ErrNoTerminal = errors.New("missing input and stdin is not a terminal")

// CanPrompt reports whether interactive forms can run.
func CanPrompt() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ReadValue expands a flag value: "-" reads stdin, "@path" reads a file,
// anything else is returned as is.
func ReadValue(v string) (string, error) {
	switch {
	case v == "-":
		return readAll(os.Stdin)
	case strings.HasPrefix(v, "@"):
		f, err := os.Open(strings.TrimPrefix(v, "@"))
		if err != nil {
			return "", err
		}
		defer f.Close()
		return readAll(f)
	default:
		return v, nil
	}
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// SplitTags parses a comma separated tag list.
func SplitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func run(form *huh.Form) error {
	if !CanPrompt() {
		return ErrNoTerminal
	}
	return form.WithTheme(huh.ThemeDracula()).Run()
}

// Login asks for whichever of email and password is empty.
func Login(email, password *string) error {
	var fields []huh.Field
	if *email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email).Validate(required("email")))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password).Validate(required("password")))
	}
	if len(fields) == 0 {
		return nil
	}
	return run(huh.NewForm(huh.NewGroup(fields...).Title("Login")))
}

// Register asks for the missing registration fields. The password is
// always entered twice.
func Register(name, email, password, confirm *string) error {
	var fields []huh.Field
	if *name == "" {
		fields = append(fields, huh.NewInput().Title("Name").Value(name).Validate(required("name")))
	}
	if *email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email).Validate(required("email")))
	}
	if *password == "" {
		fields = append(fields,
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password).Validate(required("password")),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(confirm),
		)
	}
	if len(fields) == 0 {
		return nil
	}
	return run(huh.NewForm(huh.NewGroup(fields...).Title("Create account")))
}

// Draft is the editable form state of a post.
type Draft struct {
	Title   string
	Content string
	Preview string
	Tags    string // comma separated
	Cover   string
}

// EditDraft opens the post editor prefilled with d.
func EditDraft(heading string, d *Draft) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Value(&d.Title).
			Placeholder("Post title...").
			Validate(required("title")),
		huh.NewInput().
			Title("Preview").
			Value(&d.Preview).
			Placeholder("One line summary (optional)"),
		huh.NewInput().
			Title("Tags").
			Value(&d.Tags).
			Placeholder("tag1, tag2, ..."),
		huh.NewInput().
			Title("Cover image URL").
			Value(&d.Cover),
		huh.NewText().
			Title("Content (markdown)").
			Value(&d.Content).
			Lines(12).
			Validate(required("content")),
	).Title(heading))
	return run(form)
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(question string) (bool, error) {
	var ok bool
	err := run(huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(question).Affirmative("Yes").Negative("No").Value(&ok),
	)))
	return ok, err
}
