// Package output provides styled terminal output helpers (success, error,
// warning, post and comment formatting) using lipgloss.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhishekbhonde/new-portfolio/internal/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	likeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	seedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
)

// Success prints a success message
func Success(format string, args ...any) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...any) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...any) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...any) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound        = "not_found"
	ErrCodeInvalidInput    = "invalid_input"
	ErrCodeUnauthenticated = "unauthenticated"
	ErrCodeReadOnly        = "read_only"
	ErrCodeUnreachable     = "backend_unreachable"
	ErrCodeBackend         = "backend_error"
	ErrCodeInternal        = "internal_error"
)

// ErrorCode classifies err for JSON output.
func ErrorCode(err error) string {
	var apiErr *models.APIError
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		return ErrCodeUnauthenticated
	case errors.Is(err, models.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, models.ErrReadOnly):
		return ErrCodeReadOnly
	case models.IsValidation(err):
		return ErrCodeInvalidInput
	case errors.As(err, &apiErr):
		if apiErr.Status == 0 {
			return ErrCodeUnreachable
		}
		return ErrCodeBackend
	default:
		return ErrCodeInternal
	}
}

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	data, _ := json.Marshal(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
	fmt.Println(string(data))
}

// LoginHint is printed whenever a write needs a session.
const LoginHint = "run 'folio auth login' first"

// ReportError prints err in the style matching its kind.
func ReportError(err error) {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		Error("%v; %s", err, LoginHint)
	case errors.Is(err, models.ErrReadOnly):
		Error("default posts cannot be edited or deleted")
	default:
		Error("%v", err)
	}
}

// FormatLikes renders a like count, highlighted when the viewer liked it.
func FormatLikes(count int, liked bool) string {
	heart := "♡"
	if liked {
		heart = "♥"
	}
	s := fmt.Sprintf("%s %d", heart, count)
	if liked {
		return likeStyle.Render(s)
	}
	return subtleStyle.Render(s)
}

// FormatTags renders tags as #tag chips.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "#" + strings.ReplaceAll(t, " ", "-")
	}
	return tagStyle.Render(strings.Join(parts, " "))
}

// FormatSource marks seed content.
func FormatSource(s models.Source) string {
	if s == models.SourceSeed {
		return seedStyle.Render("[default]")
	}
	return ""
}

// Truncate shortens s to width terminal cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// FormatPostShort formats a post as one listing line.
func FormatPostShort(p *models.Post) string {
	var parts []string
	parts = append(parts, titleStyle.Render(p.ID))
	if src := FormatSource(p.Source); src != "" {
		parts = append(parts, src)
	}
	parts = append(parts, Truncate(p.Title, 60))
	parts = append(parts, FormatLikes(p.LikeCount, p.LikedByViewer))
	if p.Author.Name != "" {
		parts = append(parts, subtleStyle.Render(p.Author.Name))
	}
	if !p.CreatedAt.IsZero() {
		parts = append(parts, subtleStyle.Render(FormatTimeAgo(p.CreatedAt)))
	}
	return strings.Join(parts, "  ")
}

// FormatPostLong formats a post header and body. body is the already
// rendered content.
func FormatPostLong(p *models.Post, body string) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(p.Title))
	if src := FormatSource(p.Source); src != "" {
		sb.WriteString("  " + src)
	}
	sb.WriteString("\n")
	sb.WriteString(subtleStyle.Render(fmt.Sprintf("%s | %s | id %s", authorName(p.Author), formatDate(p.CreatedAt), p.ID)))
	sb.WriteString("\n")
	sb.WriteString(FormatLikes(p.LikeCount, p.LikedByViewer))
	sb.WriteString(fmt.Sprintf("  %d comments\n", len(p.Comments)))
	if tags := FormatTags(p.Tags); tags != "" {
		sb.WriteString(tags)
		sb.WriteString("\n")
	}
	if p.CoverImage != "" {
		sb.WriteString(subtleStyle.Render("Cover: " + p.CoverImage))
		sb.WriteString("\n")
	}

	if body != "" {
		sb.WriteString("\n")
		sb.WriteString(body)
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatComment formats one comment with its id for follow-up commands.
func FormatComment(c *models.Comment) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(authorName(c.Author)))
	sb.WriteString("  ")
	sb.WriteString(subtleStyle.Render(FormatTimeAgo(c.CreatedAt)))
	sb.WriteString("  ")
	sb.WriteString(FormatLikes(c.LikeCount, c.LikedByViewer))
	sb.WriteString("\n")
	sb.WriteString(IndentString(c.Content, 2))
	sb.WriteString("\n")
	sb.WriteString(subtleStyle.Render("  id " + c.ID))
	return sb.String()
}

// FormatComments formats a thread newest first.
func FormatComments(comments []models.Comment) string {
	if len(comments) == 0 {
		return subtleStyle.Render("No comments yet.")
	}
	blocks := make([]string, len(comments))
	for i := range comments {
		blocks[i] = FormatComment(&comments[i])
	}
	return strings.Join(blocks, "\n\n")
}

func authorName(a models.Author) string {
	if a.Name == "" {
		return "Anonymous"
	}
	return a.Name
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Format("January 2, 2006")
}

// FormatTimeAgo formats a time as a human-readable "ago" string
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		return t.Format("2006-01-02")
	}
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nCOMMENTS:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// IndentString indents each line in a string by the specified number of spaces
func IndentString(s string, spaces int) string {
	if s == "" {
		return ""
	}
	indent := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}
