package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"github.com/abhishekbhonde/new-portfolio/cmd"
)

// Version is set at build time via -ldflags "-X main.Version=...".
var Version = "dev"

// effectiveVersion falls back to module or VCS build info for dev builds.
func effectiveVersion(v string) string {
	if v != "" && v != "dev" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var rev string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev == "" {
		return v
	}
	parts := []string{"devel", rev[:min(len(rev), 12)]}
	if dirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "+")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	cmd.SetVersion(effectiveVersion(Version))
	code := cmd.Execute(ctx)
	stop()
	os.Exit(code)
}
