package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/smileops/dentaldesk/internal/adapters/cache"
	"github.com/smileops/dentaldesk/internal/adapters/prefs"
	"github.com/smileops/dentaldesk/internal/infrastructure/clients/redis"
	"github.com/smileops/dentaldesk/internal/infrastructure/observability"
	"github.com/smileops/dentaldesk/internal/kiosk"
	"github.com/smileops/dentaldesk/pkg/config"
)

// A line-oriented kiosk surface for development and front-desk testing.
// The controller owns all state; this binary only feeds it events and
// prints snapshots.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)

	// Language persistence is optional; without Redis the kiosk starts
	// in English every session.
	var prefStore kiosk.PreferenceStore
	if redisClient, err := redis.NewClient(&cfg.Redis); err == nil {
		defer redisClient.Close()
		prefStore = prefs.NewCacheStore(cache.NewRedisAdapter(redisClient))
	}

	client := kiosk.NewClient(cfg.Kiosk.SearchURL)
	controller := kiosk.NewController(client, client, prefStore, cfg.Kiosk.CountdownTicks, time.Second)
	controller.RestoreLanguage(context.Background())

	fmt.Println("commands: name <text> | dob <digits> | phone <digits> | search | select <n> | back | lang <en|es> | quit")

	scanner := bufio.NewScanner(os.Stdin)
	render(controller)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		verb, rest, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		switch verb {
		case "name":
			controller.SetLastName(rest)
		case "dob":
			controller.SetDOB(rest)
		case "phone":
			controller.SetPhone(rest)
		case "search":
			controller.Submit(context.Background())
		case "select":
			idx, err := strconv.Atoi(rest)
			if err != nil {
				fmt.Println("select needs a row number")
				continue
			}
			controller.SelectResult(idx - 1)
		case "back":
			controller.Back()
		case "lang":
			controller.SwitchLanguage(context.Background(), rest)
		case "quit", "exit":
			return
		case "":
			// empty line just re-renders, which also shows countdown progress
		default:
			fmt.Printf("unknown command %q\n", verb)
			continue
		}

		render(controller)
	}
}

func render(c *kiosk.Controller) {
	s := c.Snapshot()

	fmt.Printf("\n[%s] %s\n", s.Screen, c.Localize("welcome_title"))
	fmt.Printf("  %s: %q  %s: %q  %s: %q\n",
		c.Localize("last_name_label"), s.LastName,
		c.Localize("dob_label"), s.DOB,
		c.Localize("phone_label"), s.Phone)

	if s.Message != "" {
		fmt.Printf("  ! %s\n", c.Localize(s.Message))
	}

	switch s.Screen {
	case kiosk.ScreenResults:
		fmt.Printf("  %s\n", c.Localize("select_prompt"))
		for i, m := range s.Results {
			fmt.Printf("  %d. (%s) %s  %s\n", i+1, m.AvatarLetter(), m.DisplayName(), m.Time)
		}
	case kiosk.ScreenCard:
		m := s.Selected
		fmt.Printf("  %s %s  %s\n", m.FirstName, m.LastName, m.Time)
		fmt.Printf("  %s: %s\n", c.Localize("provider_label"), m.Provider)
		if m.Room != "" {
			fmt.Printf("  %s: %s\n", c.Localize("room_label"), m.Room)
		}
		fmt.Printf("  %s: %s\n", c.Localize("procedure_label"), m.Procedure)
		if m.LastVisit != "" {
			fmt.Printf("  %s: %s\n", c.Localize("last_visit_label"), m.LastVisit)
		} else {
			fmt.Printf("  %s\n", c.Localize("first_visit"))
		}
		fmt.Printf("  photo: %s  countdown: %d/%d\n", s.Photo, s.CountdownRemaining, s.CountdownTotal)
	}
}
