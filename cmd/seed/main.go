// Seeds the standard 28-card pool into card_definitions. Safe to re-run:
// existing card names are left untouched.
package main

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	config "github.com/simplextcg/duel-services/configs"
	"github.com/simplextcg/duel-services/internal/gamesvc/db"
	"github.com/simplextcg/duel-services/internal/gamesvc/store"
)

const SERVICE_NAME = "seed"

func init() {
	config.Logging(SERVICE_NAME + "_service")
	config.LoadEnv(SERVICE_NAME)
}

var suits = []string{"Embers", "Tides", "Gales", "Stones"}

var ranks = []struct {
	Name  string
	Power int
}{
	{"Initiate", 1},
	{"Acolyte", 2},
	{"Adept", 3},
	{"Warden", 4},
	{"Champion", 5},
	{"Oracle", 6},
	{"Sovereign", 7},
}

func main() {
	dbpool, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()

	cardDefStore := store.NewCardDefinitionStore(dbpool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seeded := 0
	for _, suit := range suits {
		for _, rank := range ranks {
			name := fmt.Sprintf("%s of %s", rank.Name, suit)
			if err := cardDefStore.InsertCardDefinition(ctx, name, rank.Power); err != nil {
				log.Fatalf("Failed to seed card %q: %v", name, err)
			}
			seeded++
		}
	}

	log.Infof("card pool seeding finished, %d definitions processed", seeded)
}
