// Package main seeds a device-local store with a legacy prompt collection,
// the way the old web client left it, so the one-time migration can be
// exercised end to end.
//
// Usage:
//
//	DB_PATH=~/.promptozer/device go run ./cmd/seed
//	DB_PATH=~/.promptozer/device go run ./cmd/seed --count 25 --owner legacy-user --reset-marker
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/promptozer/promptozer/internal/domain"
	"github.com/promptozer/promptozer/internal/id"
	"github.com/promptozer/promptozer/internal/local"
)

var (
	count       = flag.Int("count", 10, "Number of prompts to add")
	owner       = flag.String("owner", "anonymous", "Owner id stored on the seeded prompts")
	duplicates  = flag.Int("duplicates", 2, "How many seeded prompts to repeat verbatim")
	resetMarker = flag.Bool("reset-marker", false, "Clear the migration marker so the offer is shown again")
)

var samples = []struct {
	title    string
	content  string
	category string
	tags     []string
}{
	{"Summarize", "Summarize the following text in three bullet points.", "Writing", []string{"summary"}},
	{"Code review", "Review this diff for bugs and unclear naming.", "Development", []string{"code", "review"}},
	{"Translate", "Translate the text below into French, keeping the tone.", "Language", []string{"translation"}},
	{"Explain like I'm five", "Explain the concept below to a five year old.", "Learning", []string{"eli5"}},
	{"Unit tests", "Write table-driven tests for this function.", "Development", []string{"code", "testing"}},
	{"Email reply", "Draft a polite reply declining the meeting.", "Writing", nil},
	{"Brainstorm", "List ten names for a note-taking app.", "", []string{"ideas", "ideas"}},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/.promptozer/device")
	}

	fmt.Printf("Opening device store at: %s\n", dbPath)

	db, err := local.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer db.Close()

	slots := local.NewSlots(db)

	existing, err := slots.Prompts()
	if err != nil {
		log.Fatalf("Failed to read prompt collection: %v", err)
	}
	fmt.Printf("Found %d existing prompts\n", len(existing))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	seeded := make([]domain.Prompt, 0, *count+*duplicates)
	for i := range *count {
		s := samples[rng.Intn(len(samples))]
		// Spread creation times over the past 30 days.
		createdAt := now.Add(-time.Duration(rng.Intn(30*24)) * time.Hour)
		seeded = append(seeded, domain.NewPrompt{
			OwnerID:  *owner,
			Title:    fmt.Sprintf("%s #%d", s.title, i+1),
			Content:  s.content,
			Tags:     s.tags,
			Category: s.category,
		}.Build(id.Legacy(), createdAt.UnixMilli()))
	}

	// Verbatim repeats are what a double-submitting legacy form produced;
	// migration must collapse them.
	for i := 0; i < *duplicates && i < len(seeded); i++ {
		dup := seeded[i].Clone()
		dup.ID = id.Legacy()
		seeded = append(seeded, dup)
	}

	if err := slots.SavePrompts(append(seeded, existing...)); err != nil {
		log.Fatalf("Failed to save prompt collection: %v", err)
	}

	if *resetMarker {
		if err := slots.SetMarker(domain.MarkerUnset); err != nil {
			log.Fatalf("Failed to reset migration marker: %v", err)
		}
		fmt.Println("Migration marker cleared")
	}

	fmt.Printf("\nSeeded %d prompts (%d verbatim duplicates) for owner %q\n", len(seeded), min(*duplicates, len(seeded)), *owner)
}
