// Package main prints the contents of a device-local store: the migration
// marker, the cached session user, the legacy prompt collection grouped by
// owner and any local user records.
//
// Usage:
//
//	DB_PATH=~/.promptozer/device go run ./cmd/dbinspect
package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/promptozer/promptozer/internal/domain"
	"github.com/promptozer/promptozer/internal/local"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/.promptozer/device")
	}

	db, err := local.OpenReadOnly(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	slots := local.NewSlots(db)

	fmt.Println("=== Device Store Inspection ===")
	fmt.Printf("Path: %s\n\n", dbPath)

	marker, err := slots.Marker()
	if err != nil {
		log.Fatalf("Failed to read migration marker: %v", err)
	}
	fmt.Printf("Migration marker: %s\n", marker)

	user, err := slots.CachedUser()
	if err != nil {
		log.Fatalf("Failed to read session user: %v", err)
	}
	if user != nil {
		fmt.Printf("Session user: %s <%s> (%s)\n", user.Name, user.Email, user.ID)
	} else {
		fmt.Println("Session user: none")
	}
	fmt.Println()

	prompts, err := slots.Prompts()
	if err != nil {
		log.Fatalf("Failed to read prompt collection: %v", err)
	}

	byOwner := map[string][]domain.Prompt{}
	for _, p := range prompts {
		byOwner[p.OwnerID] = append(byOwner[p.OwnerID], p)
	}
	owners := make([]string, 0, len(byOwner))
	for owner := range byOwner {
		owners = append(owners, owner)
	}
	slices.Sort(owners)

	for _, owner := range owners {
		owned := byOwner[owner]
		domain.SortNewestFirst(owned)
		fmt.Printf("Owner %q: %d prompts\n", owner, len(owned))
		for i, p := range owned {
			if i == 5 {
				fmt.Printf("    ... and %d more\n", len(owned)-5)
				break
			}
			fmt.Printf("    [%s] %s (tags: %s)\n", p.ID, p.Title, strings.Join(p.Tags, ", "))
		}
	}
	fmt.Println()

	var users []domain.User
	err = db.Scan("user:", func(key string, value []byte) error {
		if strings.Contains(key, ":idx:") {
			return nil
		}
		var u domain.User
		if err := json.Unmarshal(value, &u); err != nil {
			log.Printf("Error reading user %s: %v", key, err)
			return nil
		}
		users = append(users, u)
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}
	slices.SortFunc(users, func(a, b domain.User) int { return cmp.Compare(a.CreatedAt, b.CreatedAt) })
	for _, u := range users {
		fmt.Printf("Local user: %s <%s> (%s)\n", u.Name, u.Email, u.ID)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Total prompts: %d\n", len(prompts))
	fmt.Printf("Owners: %d\n", len(owners))
	fmt.Printf("Local users: %d\n", len(users))
	fmt.Printf("Migration offered: %t\n", !marker.IsSet() && len(prompts) > 0)
}
