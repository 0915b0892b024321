// Command admin is the trivial administrative database shell spec §1
// explicitly names as excluded from the core but still present in the
// repository. It reads the World Store's snapshot accessors in-process and
// renders tables with lipgloss, grounded on the teacher's
// (rackaracka123-terraforming-mars) cmd/cli styling constants
// (primary/accent/muted colors, a rounded-border panel style) and its
// bufio.Scanner-driven stdin command loop.
//
// Read-only: there are no mutation commands, keeping this an inspection
// shell rather than a second write path into the store.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rack-games/holdfast-server/internal/world"
)

var (
	primaryColor = lipgloss.Color("#7C3AED")
	accentColor  = lipgloss.Color("#10B981")
	mutedColor   = lipgloss.Color("#94A3B8")
	errorColor   = lipgloss.Color("#EF4444")

	headerStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	valueStyle  = lipgloss.NewStyle().Foreground(accentColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor)
)

func main() {
	store := world.New()
	fmt.Println(headerStyle.Render("holdfast admin shell"))
	fmt.Println(mutedStyle.Render(bannerRule()))
	fmt.Println(mutedStyle.Render("type 'help' for commands, 'quit' to exit"))
	runShell(store, os.Stdin, os.Stdout)
}

// bannerRule draws a separator sized to the terminal width, falling back to
// a fixed width when the width can't be determined (e.g. piped stdin in
// tests), the way the teacher's cmd/cli falls back across stdout/stderr/
// stdin before giving up.
func bannerRule() string {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, _, err = term.GetSize(int(os.Stdin.Fd()))
	}
	if err != nil || width <= 0 {
		width = 40
	}
	return strings.Repeat("-", width)
}

// runShell drives the read-eval-print loop over a *world.Store. Exposed for
// tests so they can supply an in-memory store already populated by a
// session, rather than a bare world.New().
func runShell(store *world.Store, in *os.File, out *os.File) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd := fields[0]
		args := fields[1:]

		switch cmd {
		case "quit", "exit":
			return
		case "help":
			printHelp(out)
		case "players":
			printPlayers(store, out)
		case "units":
			printUnits(store, out, args)
		case "buildings":
			printBuildings(store, out, args)
		case "resources":
			printResources(store, out, args)
		default:
			fmt.Fprintln(out, errorStyle.Render("unknown command: "+cmd))
		}
	}
}

func printHelp(out *os.File) {
	fmt.Fprintln(out, "players                  list every known player")
	fmt.Fprintln(out, "units <player_id>        list a player's units")
	fmt.Fprintln(out, "buildings <player_id>    list a player's buildings")
	fmt.Fprintln(out, "resources <player_id>    show a player's resources and pop")
	fmt.Fprintln(out, "quit                     exit the shell")
}

func printPlayers(store *world.Store, out *os.File) {
	var players []world.Player
	store.Do(func(s *world.State) {
		players = s.Players()
	})
	if len(players) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("no players"))
		return
	}
	for _, p := range players {
		fmt.Fprintf(out, "%s chunk=(%d,%d)\n", valueStyle.Render(fmt.Sprintf("#%d", p.ID)), p.Chunk.X, p.Chunk.Y)
	}
}

func printUnits(store *world.Store, out *os.File, args []string) {
	id, ok := parsePlayerArg(out, args)
	if !ok {
		return
	}
	var units []world.Unit
	store.Do(func(s *world.State) {
		units = s.Units(id)
	})
	if len(units) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("no units"))
		return
	}
	for i, u := range units {
		fmt.Fprintf(out, "%s kind=%d pos=(%.0f,%.0f) hp=%d\n", valueStyle.Render(fmt.Sprintf("#%d", i)), u.Kind, u.X, u.Y, u.HP)
	}
}

func printBuildings(store *world.Store, out *os.File, args []string) {
	id, ok := parsePlayerArg(out, args)
	if !ok {
		return
	}
	var buildings []world.Building
	store.Do(func(s *world.State) {
		for _, b := range s.Buildings() {
			if b.Owner == id {
				buildings = append(buildings, b)
			}
		}
	})
	if len(buildings) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("no buildings"))
		return
	}
	for _, b := range buildings {
		fmt.Fprintf(out, "%s kind=%d tile=(%d,%d) hp=%d\n", valueStyle.Render(fmt.Sprintf("#%d", b.ID)), b.Kind, b.Tile.X, b.Tile.Y, b.HP)
	}
}

func printResources(store *world.Store, out *os.File, args []string) {
	id, ok := parsePlayerArg(out, args)
	if !ok {
		return
	}
	var r world.Resources
	var popCap, popUsed int
	store.Do(func(s *world.State) {
		r = s.Resources(id)
		popCap = s.PopCap(id)
		popUsed = s.PopUsed(id)
	})
	fmt.Fprintf(out, "wood=%.1f stone=%.1f gold=%.1f food=%.1f pop=%d/%d\n", r.Wood, r.Stone, r.Gold, r.Food, popUsed, popCap)
}

func parsePlayerArg(out *os.File, args []string) (uint64, bool) {
	if len(args) != 1 {
		fmt.Fprintln(out, errorStyle.Render("expected a player id"))
		return 0, false
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("invalid player id: "+args[0]))
		return 0, false
	}
	return id, true
}
